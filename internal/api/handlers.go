package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/hobbang/studyhub/internal/account"
	"github.com/hobbang/studyhub/internal/sessions"
	"github.com/hobbang/studyhub/logger"
)

type signUpRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Bio string `json:"bio"`
}

type updateNotificationsRequest struct {
	StudyCreatedByWeb          bool `json:"study_created_by_web"`
	StudyUpdatedByWeb          bool `json:"study_updated_by_web"`
	StudyEnrollmentResultByWeb bool `json:"study_enrollment_result_by_web"`
}

type accountResponse struct {
	ID            string `json:"id"`
	Nickname      string `json:"nickname"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Bio           string `json:"bio,omitempty"`
	JoinedAt      string `json:"joined_at,omitempty"`

	StudyCreatedByWeb          bool `json:"study_created_by_web"`
	StudyUpdatedByWeb          bool `json:"study_updated_by_web"`
	StudyEnrollmentResultByWeb bool `json:"study_enrollment_result_by_web"`
}

func toAccountResponse(a *account.Account) accountResponse {
	resp := accountResponse{
		ID:                         a.ID.String(),
		Nickname:                   a.Nickname,
		Email:                      a.Email,
		EmailVerified:              a.EmailVerified,
		StudyCreatedByWeb:          a.StudyCreatedByWeb,
		StudyUpdatedByWeb:          a.StudyUpdatedByWeb,
		StudyEnrollmentResultByWeb: a.StudyEnrollmentResultByWeb,
	}
	if a.Bio.Valid {
		resp.Bio = a.Bio.String
	}
	if a.JoinedAt.Valid {
		resp.JoinedAt = a.JoinedAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) signUpHandler(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := s.accounts.ProcessSignUp(r.Context(), account.SignUpForm{
		Nickname: req.Nickname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var verr *account.ValidationError
		var derr *account.NotificationDeliveryError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Fields})
		case errors.Is(err, account.ErrDuplicateAccount):
			writeError(w, http.StatusConflict, "email or nickname already registered")
		case errors.As(err, &derr):
			logger.Error("verification mail delivery failed", logger.String("email", req.Email), logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "failed to send verification email")
		default:
			logger.Error("sign-up failed", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"account": toAccountResponse(acct)})
}

func (s *Server) checkEmailTokenHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	token := r.URL.Query().Get("token")

	result, err := s.accounts.ValidateToken(r.Context(), email, token)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAccountNotFound), errors.Is(err, account.ErrTokenMismatch):
			// One generic message for both: the link is either stale or forged,
			// and the caller learns nothing about which.
			writeError(w, http.StatusBadRequest, "invalid verification link")
		default:
			logger.Error("token validation failed", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	sessionToken, err := s.sessions.Issue(result.Account)
	if err != nil {
		logger.Error("failed to issue session token", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"nickname":       result.Nickname,
		"verified_count": result.VerifiedCount,
		"token":          sessionToken,
	})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		logger.Error("login failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	sessionToken, err := s.sessions.Issue(acct)
	if err != nil {
		logger.Error("failed to issue session token", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":   sessionToken,
		"account": toAccountResponse(acct),
	})
}

func (s *Server) verifiedCountHandler(w http.ResponseWriter, r *http.Request) {
	count, err := s.accounts.VerifiedCount(r.Context())
	if err != nil {
		logger.Error("failed to count verified members", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"verified_count": count})
}

func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromRequest(w, r)
	if !ok {
		return
	}

	acct, err := s.accounts.Profile(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		logger.Error("failed to load profile", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"account": toAccountResponse(acct)})
}

func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromRequest(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := s.accounts.UpdateProfile(r.Context(), accountID, req.Bio)
	if err != nil {
		var verr *account.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Fields})
		case errors.Is(err, account.ErrAccountNotFound):
			writeError(w, http.StatusNotFound, "account not found")
		default:
			logger.Error("failed to update profile", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"account": toAccountResponse(acct)})
}

func (s *Server) updateNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromRequest(w, r)
	if !ok {
		return
	}

	var req updateNotificationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := s.accounts.UpdateNotifications(r.Context(), accountID, account.NotificationPrefs{
		StudyCreatedByWeb:          req.StudyCreatedByWeb,
		StudyUpdatedByWeb:          req.StudyUpdatedByWeb,
		StudyEnrollmentResultByWeb: req.StudyEnrollmentResultByWeb,
	})
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		logger.Error("failed to update notification preferences", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"account": toAccountResponse(acct)})
}

func accountIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, ok := sessions.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.AccountID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid session")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
