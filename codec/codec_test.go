package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padi_protocol/sdk"
)

func TestMixedRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Byte(0x7f)
	w.Bool(true)
	w.Uint64(1 << 40)
	w.Int64(-42)
	w.VarUint(300)
	w.String("héllo")
	w.BytesField([]byte{0x00, 0xff})
	w.StringList([]string{"a", "b"})
	w.Address("eth:0xabc")

	r := NewReader(w.Bytes())

	b, err := r.Byte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x7f), b)

	flag, err := r.Bool()
	require.NoError(t, err)
	assert.True(t, flag)

	u, err := r.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), u)

	i, err := r.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-42), i)

	v, err := r.VarUint()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), v)

	s, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	raw, err := r.BytesField()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, raw)

	list, err := r.StringList()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	addr, err := r.Address()
	require.NoError(t, err)
	assert.Equal(t, sdk.Address("eth:0xabc"), addr)
}

func TestEmptyValues(t *testing.T) {
	w := NewWriter()
	w.String("")
	w.BytesField(nil)
	w.StringList(nil)
	w.Address(sdk.AddressZero)

	r := NewReader(w.Bytes())

	s, err := r.String()
	require.NoError(t, err)
	assert.Empty(t, s)

	raw, err := r.BytesField()
	require.NoError(t, err)
	assert.Empty(t, raw)

	list, err := r.StringList()
	require.NoError(t, err)
	assert.Empty(t, list)

	addr, err := r.Address()
	require.NoError(t, err)
	assert.True(t, addr.IsZero())
}

func TestTruncatedInput(t *testing.T) {
	w := NewWriter()
	w.Uint64(12345)
	data := w.Bytes()

	r := NewReader(data[:4])
	_, err := r.Uint64()
	require.Error(t, err)

	// string length prefix promising more bytes than available
	w = NewWriter()
	w.String("abcdef")
	data = w.Bytes()
	r = NewReader(data[:3])
	_, err = r.String()
	require.Error(t, err)

	r = NewReader(nil)
	_, err = r.Byte()
	require.Error(t, err)
}

func TestDeterministicEncoding(t *testing.T) {
	encode := func() []byte {
		w := NewWriter()
		w.VarUint(1 << 20)
		w.String("same")
		return w.Bytes()
	}
	assert.Equal(t, encode(), encode())
}
