package email

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBodyFromHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code.html")
	require.NoError(t, os.WriteFile(path, []byte(`<p>Your code: <b>{{.Code}}</b></p>`), 0o600))

	input := SendEmailInput{To: "user@example.com", Subject: "Code"}
	require.NoError(t, input.GenerateBodyFromHTML(path, struct{ Code string }{"004821"}))

	assert.Equal(t, `<p>Your code: <b>004821</b></p>`, input.Body)
	assert.NoError(t, input.Validate())
}

func TestGenerateBodyFromHTML_MissingTemplate(t *testing.T) {
	input := SendEmailInput{}
	err := input.GenerateBodyFromHTML(filepath.Join(t.TempDir(), "missing.html"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.EqualError(t, (&SendEmailInput{Subject: "s", Body: "b"}).Validate(), "empty to")
	assert.EqualError(t, (&SendEmailInput{To: "user@example.com"}).Validate(), "empty subject/body")
	assert.EqualError(t, (&SendEmailInput{To: "nope", Subject: "s", Body: "b"}).Validate(), "invalid to email")
}
