package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	t.Run("values keep their JSON type", func(t *testing.T) {
		got, err := parseOverrides([]string{
			"productSelection=2",
			"referralCode=QA01",
			"subscribe=true",
			`fullName="Budi Santoso"`,
			"email=",
		})
		require.NoError(t, err)
		assert.Equal(t, json.Number("2"), got["productSelection"])
		assert.Equal(t, "QA01", got["referralCode"])
		assert.Equal(t, true, got["subscribe"])
		assert.Equal(t, "Budi Santoso", got["fullName"])
		assert.Equal(t, "", got["email"])
	})

	t.Run("values may contain equals signs", func(t *testing.T) {
		got, err := parseOverrides([]string{"password=a=b"})
		require.NoError(t, err)
		assert.Equal(t, "a=b", got["password"])
	})

	t.Run("trailing tokens keep the raw string", func(t *testing.T) {
		got, err := parseOverrides([]string{"phoneNumber=0812 3456"})
		require.NoError(t, err)
		assert.Equal(t, "0812 3456", got["phoneNumber"])
	})

	t.Run("missing key is rejected", func(t *testing.T) {
		_, err := parseOverrides([]string{"=x"})
		assert.Error(t, err)
		_, err = parseOverrides([]string{"novalue"})
		assert.Error(t, err)
	})

	t.Run("no tokens means no override", func(t *testing.T) {
		got, err := parseOverrides(nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
