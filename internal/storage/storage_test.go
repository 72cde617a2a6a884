package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("access denied")

	ce := &ConnectionError{Op: "GetStudents", Err: cause}
	require.Equal(t, "GetStudents: connect: access denied", ce.Error())
	require.ErrorIs(t, ce, cause)

	se := &StatementError{Op: "CreateStudent", Err: cause}
	require.Equal(t, "CreateStudent: statement failed: access denied", se.Error())

	se.Code = 1062
	require.Equal(t, "CreateStudent: statement failed (1062): access denied", se.Error())
	require.ErrorIs(t, se, cause)
}

func TestIsConnection(t *testing.T) {
	wrapped := fmt.Errorf("list: %w", &ConnectionError{Op: "GetStudents", Err: errors.New("refused")})
	require.True(t, IsConnection(wrapped))
	require.False(t, IsConnection(&StatementError{Op: "GetStudents", Err: errors.New("bad sql")}))
	require.False(t, IsConnection(ErrNotFound))
}
