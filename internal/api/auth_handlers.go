package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	database "github.com/Mihlali-tech/Alx-DjangoLearnLab/internal"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/utils"
)

// RegisterUser handles user registration requests. Registration is public;
// the username is the only identity the rest of the API ever exposes.
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if ok, why := utils.ValidatePasswordPolicy(req.Password, req.Username); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": why})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	newUser := database.User{
		ID:             uuid.New(),
		Username:       req.Username,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	query := `INSERT INTO users (id, username, hashed_password, created_at, updated_at)
	          VALUES (:id, :username, :hashed_password, :created_at, :updated_at)`
	_, err = database.DB.NamedExec(query, newUser)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") || strings.Contains(err.Error(), "duplicate") {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "User registered successfully",
		"user_id":  newUser.ID,
		"username": newUser.Username,
	})
}

// LoginUser exchanges username/password for a signed bearer token
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var user database.User
	query := `SELECT id, username, hashed_password, created_at, updated_at FROM users WHERE username=$1`
	err := database.DB.Get(&user, query, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Same response as a wrong password so usernames can't be probed
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.HashedPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	tokenString, err := utils.GenerateJWT(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   tokenString,
		"user_id": user.ID,
	})
}
