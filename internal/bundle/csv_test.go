package bundle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVAcceptsLegacyBooleanEyelidColumns(t *testing.T) {
	csv := strings.Join([]string{
		strings.Join(csvHeader, ","),
		"10,eye,0.2,0.8,True,False,False,None",
		"20,eye,0.2,0.8,true,false,true,None",
	}, "\n") + "\n"

	eye, mouth, err := readCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, mouth)
	require.Len(t, eye, 2)

	assert.Equal(t, 1.0, eye[0].LeftClosed)
	assert.Equal(t, 0.0, eye[0].RightClosed)
	assert.False(t, eye[0].BothClosed)

	assert.Equal(t, 1.0, eye[1].LeftClosed)
	assert.Equal(t, 0.0, eye[1].RightClosed)
	assert.True(t, eye[1].BothClosed)
}

func TestReadCSVStillAcceptsFractionalEyelidColumns(t *testing.T) {
	csv := strings.Join([]string{
		strings.Join(csvHeader, ","),
		"10,eye,0.2,0.8,0.35,0.9,false,None",
	}, "\n") + "\n"

	eye, _, err := readCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, eye, 1)
	assert.Equal(t, 0.35, eye[0].LeftClosed)
	assert.Equal(t, 0.9, eye[0].RightClosed)
}
