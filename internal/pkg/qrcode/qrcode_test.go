package qrcode

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNG(t *testing.T) {
	data, err := PNG("EMP-001", 128)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())
}

func TestPNG_Deterministic(t *testing.T) {
	a, err := PNG("EMP-001", 0)
	require.NoError(t, err)
	b, err := PNG("EMP-001", DefaultSize)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPNG_EmptyContent(t *testing.T) {
	_, err := PNG("", 128)
	assert.Error(t, err)
}

func TestDataURL(t *testing.T) {
	url := DataURL([]byte{0x89, 'P', 'N', 'G'})
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	assert.Equal(t, "data:image/png;base64,iVBORw==", url)
}
