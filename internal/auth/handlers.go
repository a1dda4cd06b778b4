package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/ArdhiYetu/AY-Backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// sessionCookie builds the session cookie. Hosted deployments (PORT set by
// the platform) serve over HTTPS behind a proxy and need Secure +
// SameSite=None for the cross-origin map frontend; local dev uses plain HTTP.
func sessionCookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     "session_id",
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Expires:  expires,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
	if os.Getenv("PORT") != "" {
		c.SameSite = http.SameSiteNoneMode
		c.Secure = true
	}
	return c
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var user User
	var session Session
	var existing Session

	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}

	password := user.Password
	err = db.DB.First(&user, "username = ?", user.Username).Error
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password))
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	id := utils.GenerateUUID()
	expires := time.Now().Add(6 * time.Hour)
	http.SetCookie(w, sessionCookie(id, expires))

	// One session per user: refresh in place if a session row already exists.
	db.DB.Where("user_id = ?", user.UserID).First(&existing)
	if existing.UserID != "" {
		db.DB.Model(&existing).Updates(Session{
			SessionID: id,
			ExpiresAt: expires,
		})
	} else {
		session.SessionID = id
		session.UserID = user.UserID
		session.ExpiresAt = expires
		db.DB.Create(&session)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var session Session

	cookie, err := r.Cookie("session_id")
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	err = db.DB.First(&session, "session_id = ?", cookie.Value).Error
	if err != nil {
		http.Error(w, "Couldn't find session", http.StatusUnauthorized)
		return
	}

	db.DB.Delete(&session)

	deletedCookie := sessionCookie("", time.Unix(0, 0))
	deletedCookie.MaxAge = -1
	http.SetCookie(w, deletedCookie)

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

type MeResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	err := db.DB.First(&user, "user_id = ?", userID).Error
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	response := MeResponse{
		UserID:   userID,
		Username: user.Username,
		Role:     user.Role,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
