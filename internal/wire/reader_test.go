package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadRequest(t *testing.T) {
	raw := "*3\r\n$7\r\ngreeter\r\n$12\r\nadd_two_ints\r\n$26\r\n" +
		`{"args":[1,2],"kwargs":{}}` + "\r\n"

	r := NewReader(bytes.NewBufferString(raw))
	elems, err := r.ReadRequest()
	require.NoError(t, err)
	require.Len(t, elems, 3)
	require.Equal(t, "greeter", string(elems[0]))
	require.Equal(t, "add_two_ints", string(elems[1]))
	require.Equal(t, `{"args":[1,2],"kwargs":{}}`, string(elems[2]))
}

func TestReadRequestZeroArg(t *testing.T) {
	raw := "*2\r\n$4\r\ncore\r\n$11\r\nlist_actors\r\n"

	r := NewReader(bytes.NewBufferString(raw))
	elems, err := r.ReadRequest()
	require.NoError(t, err)
	require.Len(t, elems, 2)
}

func TestReadRequestEOF(t *testing.T) {
	r := NewReader(bytes.NewBufferString(""))
	_, err := r.ReadRequest()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadRequestMalformedHeader(t *testing.T) {
	r := NewReader(bytes.NewBufferString("not-an-array\r\n"))
	_, err := r.ReadRequest()
	require.Error(t, err)

	var fe *FramingError
	require.ErrorAs(t, err, &fe)
}

func TestReadRequestTruncatedBulk(t *testing.T) {
	// Declares a 10-byte bulk string but only supplies 3 bytes.
	raw := "*1\r\n$10\r\nabc\r\n"
	r := NewReader(bytes.NewBufferString(raw))
	_, err := r.ReadRequest()
	require.Error(t, err)
}

func TestReadReplyBulkString(t *testing.T) {
	raw := "$27\r\n" + `{"success":true,"result":3}` + "\r\n"
	r := NewReader(bytes.NewBufferString(raw))
	reply, err := r.ReadReply()
	require.NoError(t, err)
	require.Equal(t, `{"success":true,"result":3}`, string(reply))
}

func TestReadReplySimpleString(t *testing.T) {
	r := NewReader(bytes.NewBufferString("+OK\r\n"))
	reply, err := r.ReadReply()
	require.NoError(t, err)
	require.Equal(t, "OK", string(reply))
}

func TestReadReplyEOF(t *testing.T) {
	r := NewReader(bytes.NewBufferString(""))
	_, err := r.ReadReply()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadRequestMultipleSequential(t *testing.T) {
	raw := "*1\r\n$4\r\ncore\r\n*1\r\n$6\r\nsystem\r\n"
	r := NewReader(bytes.NewBufferString(raw))

	first, err := r.ReadRequest()
	require.NoError(t, err)
	require.Equal(t, "core", string(first[0]))

	second, err := r.ReadRequest()
	require.NoError(t, err)
	require.Equal(t, "system", string(second[0]))

	_, err = r.ReadRequest()
	require.ErrorIs(t, err, io.EOF)
}
