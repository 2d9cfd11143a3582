package model

import (
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID                              int64     `json:"id"`
	Username                        string    `json:"username"`
	Email                           string    `json:"email"`
	Password                        string    `json:"-"`
	WalletAddress                   string    `json:"wallet_address,omitempty"`
	CreatedAt                       time.Time `json:"created_at"`
	UpdatedAt                       time.Time `json:"updated_at"`
	IsEmailVerified                 bool      `json:"is_email_verified"`
	EmailVerificationToken          string    `json:"-"`
	EmailVerificationTokenExpiresAt time.Time `json:"-"`
	PasswordResetToken              string    `json:"-"`
	PasswordResetTokenExpiresAt     time.Time `json:"-"`
}

func (u *User) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) CreateUser(db *sql.DB) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
	INSERT INTO users (username, email, password, wallet_address, is_email_verified, email_verification_token, email_verification_token_expires_at, password_reset_token, password_reset_token_expires_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var emailTokenExpiresArg interface{}
	if u.EmailVerificationTokenExpiresAt.IsZero() {
		emailTokenExpiresArg = nil
	} else {
		emailTokenExpiresArg = u.EmailVerificationTokenExpiresAt
	}

	res, err := stmt.Exec(
		u.Username,
		u.Email,
		u.Password,
		u.WalletAddress,
		u.IsEmailVerified,
		u.EmailVerificationToken,
		emailTokenExpiresArg,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

const userColumns = `
	id, username, email, password, wallet_address, is_email_verified,
	email_verification_token, email_verification_token_expires_at,
	password_reset_token, password_reset_token_expires_at,
	created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var walletAddress, emailVerificationToken, passwordResetToken sql.NullString
	var emailVerificationTokenExpiresAt, passwordResetTokenExpiresAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&walletAddress,
		&user.IsEmailVerified,
		&emailVerificationToken, &emailVerificationTokenExpiresAt,
		&passwordResetToken, &passwordResetTokenExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	user.WalletAddress = walletAddress.String
	user.EmailVerificationToken = emailVerificationToken.String
	if emailVerificationTokenExpiresAt.Valid {
		user.EmailVerificationTokenExpiresAt = emailVerificationTokenExpiresAt.Time
	}
	user.PasswordResetToken = passwordResetToken.String
	if passwordResetTokenExpiresAt.Valid {
		user.PasswordResetTokenExpiresAt = passwordResetTokenExpiresAt.Time
	}
	return &user, nil
}

func GetUserByID(db *sql.DB, id int64) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func GetUserByUsername(db *sql.DB, username string) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func GetUserByEmail(db *sql.DB, email string) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func GetUserByVerificationToken(db *sql.DB, token string) (*User, error) {
	user, err := scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email_verification_token = ?`, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("invalid or expired verification token")
		}
		return nil, err
	}
	return user, nil
}

func GetUserByPasswordResetToken(db *sql.DB, token string) (*User, error) {
	user, err := scanUser(db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE password_reset_token = ? AND password_reset_token_expires_at > ?`,
		token, time.Now()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("invalid or expired password reset token")
		}
		return nil, err
	}
	return user, nil
}

func (u *User) UpdateUserVerificationStatus(db *sql.DB, isVerified bool) error {
	u.IsEmailVerified = isVerified
	u.EmailVerificationToken = ""
	u.EmailVerificationTokenExpiresAt = time.Time{}
	u.UpdatedAt = time.Now()

	query := `
	UPDATE users
	SET is_email_verified = ?, email_verification_token = NULL, email_verification_token_expires_at = NULL, updated_at = ?
	WHERE id = ?`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(u.IsEmailVerified, u.UpdatedAt, u.ID)
	return err
}

func (u *User) UpdateUserVerificationToken(db *sql.DB, token string, expiresAt time.Time) error {
	u.EmailVerificationToken = token
	u.EmailVerificationTokenExpiresAt = expiresAt
	u.UpdatedAt = time.Now()

	query := `
	UPDATE users
	SET email_verification_token = ?, email_verification_token_expires_at = ?, updated_at = ?
	WHERE id = ?`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(u.EmailVerificationToken, u.EmailVerificationTokenExpiresAt, u.UpdatedAt, u.ID)
	return err
}

func (u *User) SetPasswordResetToken(db *sql.DB, token string, expiresAt time.Time) error {
	u.PasswordResetToken = token
	u.PasswordResetTokenExpiresAt = expiresAt
	u.UpdatedAt = time.Now()

	var query string
	var args []interface{}

	if token == "" {
		query = `
		UPDATE users
		SET password_reset_token = NULL, password_reset_token_expires_at = NULL, updated_at = ?
		WHERE id = ?`
		args = []interface{}{u.UpdatedAt, u.ID}
	} else {
		query = `
		UPDATE users
		SET password_reset_token = ?, password_reset_token_expires_at = ?, updated_at = ?
		WHERE id = ?`
		args = []interface{}{u.PasswordResetToken, u.PasswordResetTokenExpiresAt, u.UpdatedAt, u.ID}
	}

	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(args...)
	return err
}

func (u *User) UpdatePassword(db *sql.DB, newPasswordHash string) error {
	u.Password = newPasswordHash
	u.PasswordResetToken = ""
	u.PasswordResetTokenExpiresAt = time.Time{}
	u.UpdatedAt = time.Now()

	query := `
	UPDATE users
	SET password = ?, password_reset_token = NULL, password_reset_token_expires_at = NULL, updated_at = ?
	WHERE id = ?`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(u.Password, u.UpdatedAt, u.ID)
	return err
}

func (u *User) UpdateProfile(db *sql.DB, username, email string) error {
	u.Username = username
	u.Email = email
	u.UpdatedAt = time.Now()

	query := `
	UPDATE users
	SET username = ?, email = ?, updated_at = ?
	WHERE id = ?`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(u.Username, u.Email, u.UpdatedAt, u.ID)
	return err
}

func (u *User) UpdateWalletAddress(db *sql.DB, address string) error {
	u.WalletAddress = address
	u.UpdatedAt = time.Now()

	query := `
	UPDATE users
	SET wallet_address = ?, updated_at = ?
	WHERE id = ?`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(u.WalletAddress, u.UpdatedAt, u.ID)
	return err
}
