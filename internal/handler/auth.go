package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/auth"
	"github.com/sakif/kickstart-blog/internal/media"
	"github.com/sakif/kickstart-blog/internal/model"
	"github.com/sakif/kickstart-blog/internal/service"
)

// maxUploadSize bounds multipart request bodies (10 MB, matching what the
// frontend enforces client-side).
const maxUploadSize = 10 << 20

// AuthHandler exposes the signup/login flow:
//
//	POST /api/auth/request-otp  → start signup, mail a 6-digit code
//	POST /api/auth/verify-otp   → complete signup, get a token
//	POST /api/auth/login        → get a token for a verified account
//	GET  /api/auth/me           → current user (protected)
type AuthHandler struct {
	auth     *service.AuthService
	uploader media.Uploader
	logger   *slog.Logger
}

func NewAuthHandler(authSvc *service.AuthService, uploader media.Uploader, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, uploader: uploader, logger: logger}
}

type requestOTPRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	DateOfBirth  string `json:"dateOfBirth"`
	MobileNumber string `json:"mobileNumber"`
}

// userResponse is the user payload returned by the auth endpoints. It
// deliberately repeats fields rather than embedding model.User so the wire
// shape can't change by accident when the model grows a column.
type userResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	MobileNumber   string `json:"mobileNumber"`
	DateOfBirth    string `json:"dateOfBirth"`
	ProfilePicture string `json:"profilePicture"`
	Role           string `json:"role"`
	CreatedAt      string `json:"createdAt"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		MobileNumber:   u.MobileNumber,
		DateOfBirth:    u.DateOfBirth,
		ProfilePicture: u.AvatarURL,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleRequestOTP starts a signup.
//
// The signup form posts multipart/form-data (it may carry a profile
// picture), but plain JSON is accepted too for clients without a file. An
// attached picture is uploaded to the media host BEFORE the pending row is
// written, so the row is created complete — the original flow did the same.
func (h *AuthHandler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPRequest
	var picture multipart.File

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, apperror.ValidationFailed("", "invalid multipart form"))
			return
		}
		req = requestOTPRequest{
			FirstName:    r.FormValue("firstName"),
			LastName:     r.FormValue("lastName"),
			Email:        r.FormValue("email"),
			Password:     r.FormValue("password"),
			DateOfBirth:  r.FormValue("dateOfBirth"),
			MobileNumber: r.FormValue("mobileNumber"),
		}
		if f, _, err := r.FormFile("profilePic"); err == nil {
			picture = f
			defer f.Close()
		}
	} else {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	if err := checkRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	in := service.SignupInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		DateOfBirth:  req.DateOfBirth,
		MobileNumber: req.MobileNumber,
	}

	if picture != nil {
		asset, err := h.uploader.Upload(r.Context(), picture, media.FolderProfiles)
		if err != nil {
			h.logger.Error("signup picture upload failed", slog.String("error", err.Error()))
			writeError(w, err)
			return
		}
		in.AvatarURL = asset.URL
		in.AvatarID = asset.PublicID
	}

	if err := h.auth.RequestOTP(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "OTP sent successfully!",
	})
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// HandleVerifyOTP completes a signup and logs the user straight in.
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Signup successful",
		"token":   result.Token,
		"user":    toUserResponse(result.User),
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a verified account.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"token":   result.Token,
		"user":    toUserResponse(result.User),
	})
}

// HandleMe returns the authenticated user's profile.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    toUserResponse(user),
	})
}
