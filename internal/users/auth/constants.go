// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Client Messages

const (
	MessageEmailTaken        = "Email already exists"
	MessageUsernameTaken     = "Username already exists"
	MessageIdentityTaken     = "Username or email already exists"
	MessageInvalidCredential = "Invalid credentials"
	MessageInvalidToken      = "Invalid or expired token"
	MessageUserNotFound      = "User not found"
	MessageInvalidOTP        = "Invalid or expired OTP"
	MessageWrongPassword     = "Current password is incorrect"
	MessageEmailRequired     = "Email query parameter is required"
)
