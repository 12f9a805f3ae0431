package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_RegisterAndAuthenticate(t *testing.T) {
	d := NewDirectory()

	u, err := d.Register("Asha", "asha@mec.edu.in", "secret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "asha@mec.edu.in", u.Email)
	assert.NotEqual(t, "secret-password", u.PasswordHash)

	got, err := d.Authenticate("asha@mec.edu.in", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestDirectory_Register_DuplicateEmail(t *testing.T) {
	d := NewDirectory()

	_, err := d.Register("Asha", "asha@mec.edu.in", "secret-password")
	require.NoError(t, err)

	_, err = d.Register("Other", "Asha@MEC.edu.in", "another-password")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDirectory_Register_ShortPassword(t *testing.T) {
	d := NewDirectory()

	_, err := d.Register("Asha", "asha@mec.edu.in", "short")

	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestDirectory_Authenticate_WrongPassword(t *testing.T) {
	d := NewDirectory()
	_, err := d.Register("Asha", "asha@mec.edu.in", "secret-password")
	require.NoError(t, err)

	_, err = d.Authenticate("asha@mec.edu.in", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDirectory_Authenticate_UnknownEmail(t *testing.T) {
	d := NewDirectory()

	_, err := d.Authenticate("nobody@mec.edu.in", "whatever-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDirectory_Get(t *testing.T) {
	d := NewDirectory()
	u, err := d.Register("Asha", "asha@mec.edu.in", "secret-password")
	require.NoError(t, err)

	got, err := d.Get(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)

	_, err = d.Get("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSession_States(t *testing.T) {
	u := &User{ID: "user-1", Email: "asha@mec.edu.in"}

	tests := []struct {
		name     string
		session  Session
		signedIn bool
		email    string
	}{
		{"anonymous", Anonymous(), false, ""},
		{"pending", Session{User: u, Pending: true}, false, ""},
		{"signed in", Session{User: u}, true, "asha@mec.edu.in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.signedIn, tt.session.SignedIn())
			assert.Equal(t, tt.email, tt.session.Email())
		})
	}
}
