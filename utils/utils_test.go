package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fest-central/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithError_WritesMessageBody(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusForbidden, models.Error{Message: "Judge access required"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Judge access required", body["message"])
}

func TestRandomCodeLetter_StaysInPool(t *testing.T) {
	taken := map[string]bool{"A": true, "C": true}
	for i := 0; i < 50; i++ {
		letter, err := RandomCodeLetter(taken, 4)
		require.NoError(t, err)
		assert.Contains(t, []string{"B", "D"}, letter)
	}
}

func TestRandomCodeLetter_Exhausted(t *testing.T) {
	taken := map[string]bool{"A": true, "B": true, "C": true}
	_, err := RandomCodeLetter(taken, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no available code letters")
}

func TestRandomCodeLetter_PoolCappedAtAlphabet(t *testing.T) {
	letter, err := RandomCodeLetter(map[string]bool{}, 40)
	require.NoError(t, err)
	assert.Len(t, letter, 1)
	assert.GreaterOrEqual(t, letter[0], byte('A'))
	assert.LessOrEqual(t, letter[0], byte('Z'))
}

func TestRandomCodeLetter_SingleParticipant(t *testing.T) {
	letter, err := RandomCodeLetter(map[string]bool{}, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", letter)
}
