package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func userExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&User{}).Where("id = ?", username).Count(&count).Error
	return count > 0, err
}

// isReservedUsername reports whether name belongs to the configured admin,
// whether or not that account has been seeded yet.
func isReservedUsername(name string) bool {
	return appConfig != nil && strings.EqualFold(name, appConfig.AdminUsername)
}

// registerUser creates a customer account. The email is validated but not
// stored.
func registerUser(ctx context.Context, form RegisterForm) (*User, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	if isReservedUsername(form.Username) {
		return nil, newAppError(KindDuplicateUser, "Username already exists")
	}

	exists, err := userExists(ctx, form.Username)
	if err != nil {
		return nil, internalError("failed to look up user", err)
	}
	if exists {
		return nil, newAppError(KindDuplicateUser, "Username already exists")
	}

	hash, err := hashPassword(form.Password)
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}

	user := &User{ID: form.Username, PasswordHash: hash, Role: RoleCustomer}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newAppError(KindDuplicateUser, "Username already exists")
		}
		if exists, _ := userExists(ctx, form.Username); exists {
			return nil, newAppError(KindDuplicateUser, "Username already exists")
		}
		return nil, internalError("failed to create user", err)
	}

	RecordRegistration()
	return user, nil
}

// authenticate checks a username and password against the store
func authenticate(ctx context.Context, form LoginForm) (*User, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}

	var user User
	if err := db.WithContext(ctx).First(&user, "id = ?", form.Username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RecordAuthAttempt(false)
			return nil, newAppError(KindInvalidCredentials, "Invalid username or password")
		}
		return nil, internalError("failed to look up user", err)
	}

	if !checkPassword(user.PasswordHash, form.Password) {
		RecordAuthAttempt(false)
		return nil, newAppError(KindInvalidCredentials, "Invalid username or password")
	}

	RecordAuthAttempt(true)
	return &user, nil
}

func GetLogin(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	renderTemplate(w, r, http.StatusOK, "login", nil)
}

func PostLogin(w http.ResponseWriter, r *http.Request) {
	form := parseLoginForm(r)
	log.Printf("[AUTH] Login attempt for username: %s", form.Username)

	user, err := authenticate(r.Context(), form)
	if err != nil {
		if IsKind(err, KindInternal) {
			log.Printf("[AUTH] Login failed for %s: %v", form.Username, err)
		} else {
			log.Printf("[AUTH] Invalid login attempt for username: %s", form.Username)
		}
		renderTemplate(w, r, http.StatusOK, "login", form.Username, Flash{Category: "danger", Message: userMessage(err)})
		return
	}

	if err := startSession(w, user); err != nil {
		log.Printf("[AUTH] Could not start session for %s: %v", user.ID, err)
		http.Error(w, "Error signing in", http.StatusInternalServerError)
		return
	}
	log.Printf("[AUTH] User %s logged in", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

type registerPageData struct {
	Username string
	Email    string
}

func GetRegister(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	renderTemplate(w, r, http.StatusOK, "register", registerPageData{})
}

func PostRegister(w http.ResponseWriter, r *http.Request) {
	form := parseRegisterForm(r)
	log.Printf("[AUTH] Registration attempt for username: %s", form.Username)

	user, err := registerUser(r.Context(), form)
	if err != nil {
		if IsKind(err, KindInternal) {
			log.Printf("[AUTH] Registration failed for %s: %v", form.Username, err)
		} else {
			log.Printf("[AUTH] Registration rejected for %s: %s", form.Username, userMessage(err))
		}
		data := registerPageData{Username: form.Username, Email: form.Email}
		renderTemplate(w, r, http.StatusOK, "register", data, Flash{Category: "danger", Message: userMessage(err)})
		return
	}

	if err := startSession(w, user); err != nil {
		log.Printf("[AUTH] Could not start session for %s: %v", user.ID, err)
		http.Error(w, "Error signing in", http.StatusInternalServerError)
		return
	}
	log.Printf("[AUTH] User %s registered and logged in", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func Logout(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] User %s logged out", currentUser(r).ID)
	endSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
