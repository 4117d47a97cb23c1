package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkUsername(input.Username)
	v.checkEmail(input.Email)
	v.checkPassword(input.Password)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	existing, err := app.storage.getUserByUsername(input.Username)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to check for existing username")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		writeError(w, errors.New("Username already exists"), http.StatusBadRequest)
		return
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to hash password")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}

	u := &user{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	err = app.storage.insertUser(u)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to insert user")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}

	token, err := issueToken(u.ID, app.config.jwt.secret, app.config.jwt.ttl)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to issue token")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}

	if app.mailer != nil {
		go func() {
			if err := app.mailer.sendWelcome(u); err != nil {
				app.logger.Error().Err(err).Str("email", u.Email).Msg("unable to send welcome email")
			}
		}()
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "User created successfully",
		"access_token": token,
		"user":         u,
	})
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkCond(input.Username != "", "username", "must be provided")
	v.checkCond(input.Password != "", "password", "must be provided")
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	u, err := app.storage.getUserByUsername(input.Username)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to look up user")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}
	if u == nil {
		// burn a comparison so unknown users cost the same as bad passwords
		verifyPassword(input.Password, unknownUserHash)
		writeError(w, errInvalidCredentials, http.StatusUnauthorized)
		return
	}
	if !verifyPassword(input.Password, u.PasswordHash) {
		writeError(w, errInvalidCredentials, http.StatusUnauthorized)
		return
	}

	token, err := issueToken(u.ID, app.config.jwt.secret, app.config.jwt.ttl)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to issue token")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"access_token": token,
		"user":         u,
	})
}
