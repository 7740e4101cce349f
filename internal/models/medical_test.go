package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiabetesTypeValid(t *testing.T) {
	for _, d := range []DiabetesType{DiabetesNone, DiabetesPre, DiabetesType1, DiabetesType2, DiabetesGestational} {
		assert.True(t, d.Valid(), "type %d", d)
	}
	assert.False(t, DiabetesType(-1).Valid())
	assert.False(t, DiabetesType(5).Valid())
}
