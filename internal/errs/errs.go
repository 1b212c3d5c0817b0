package errs

import "errors"

var ErrUsernameTaken = errors.New("username already exists")
var ErrEmailTaken = errors.New("email already exists")
var ErrAccountNotFound = errors.New("account not found")
var ErrAccountDeactivated = errors.New("account is deactivated")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrOrderNotFound = errors.New("order not found")
var ErrInvalidToken = errors.New("invalid token")
