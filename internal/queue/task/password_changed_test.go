package task

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordChangedTask(t *testing.T) {
	tsk, err := NewPasswordChangedTask("user@example.com", 3)
	require.NoError(t, err)

	assert.Equal(t, PasswordChangedTaskName, tsk.Type())

	var data PasswordChanged
	require.NoError(t, json.Unmarshal(tsk.Payload(), &data))
	assert.Equal(t, "user@example.com", data.Email)
}
