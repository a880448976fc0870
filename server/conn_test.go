package server

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineConn_ReadWrite(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	conn := newLineConn(serverSide)

	go func() {
		clientSide.Write([]byte("alice\r\nroom 1\npartial"))
		clientSide.Close()
	}()

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "alice", line)

	line, err = conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "room 1", line)

	line, err = conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "partial", line)

	_, err = conn.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineConn_WriteLineAppendsNewline(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	conn := newLineConn(serverSide)
	defer conn.Close()

	go func() {
		assert.NoError(t, conn.WriteLine("MP1 won"))
	}()

	buf := make([]byte, 16)
	n, err := io.ReadAtLeast(clientSide, buf, len("MP1 won\n"))
	require.NoError(t, err)
	assert.Equal(t, "MP1 won\n", string(buf[:n]))
}
