package server

import (
	"bufio"
	"io"
	"net"
	"sync"
)

const maxLineSize = 1024 * 1024

// lineConn adapts a net.Conn to engine.Transport. Reads happen only on the
// owning session goroutine; writes may come from any seat of the game.
type lineConn struct {
	conn    net.Conn
	scanner *bufio.Scanner
	writeMu sync.Mutex
}

func newLineConn(conn net.Conn) *lineConn {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxLineSize)
	return &lineConn{conn: conn, scanner: scanner}
}

// ReadLine returns the next line without its line ending. A closed peer is
// reported as io.EOF.
func (l *lineConn) ReadLine() (string, error) {
	if l.scanner.Scan() {
		return l.scanner.Text(), nil
	}
	if err := l.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (l *lineConn) WriteLine(line string) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	data := make([]byte, 0, len(line)+1)
	data = append(data, line...)
	data = append(data, '\n')
	_, err := l.conn.Write(data)
	return err
}

func (l *lineConn) Close() error {
	return l.conn.Close()
}
