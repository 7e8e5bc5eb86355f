package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("empty env fails fast", func(t *testing.T) {
		_, err := New("  ")
		require.ErrorIs(t, err, ErrMissingEnv)
	})

	t.Run("keeps the selected env", func(t *testing.T) {
		r, err := New("stg")
		require.NoError(t, err)
		assert.Equal(t, "stg", r.Env())
	})
}

func TestResolverURL(t *testing.T) {
	r, err := New("uat")
	require.NoError(t, err)

	tests := []struct {
		kind Kind
		want string
	}{
		{KindService, "https://uat-services.investree.tech"},
		{KindBackend, "https://uat-backend.investree.tech"},
		{KindFrontend, "https://uat.investree.tech"},
		{KindLegacy, "https://uat-legacy.investree.tech"},
		{KindMobile, "https://uat-mobile.investree.tech"},
		{KindAPISync, "https://uat-apisync.investree.tech"},
		{KindBackofficeLegacy, "https://uat-bo.investree.tech"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := r.URL(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := r.URL(Kind("nope"))
		require.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("resolves every kind", func(t *testing.T) {
		urls, err := r.URLs()
		require.NoError(t, err)
		assert.Len(t, urls, len(Kinds))
	})
}

func TestResolverOptions(t *testing.T) {
	t.Run("templates replace defaults per kind", func(t *testing.T) {
		r, err := New("dev", WithTemplates(map[Kind]string{
			KindLegacy: "http://legacy-{env}.internal/",
		}))
		require.NoError(t, err)

		legacy, _ := r.URL(KindLegacy)
		service, _ := r.URL(KindService)
		assert.Equal(t, "http://legacy-dev.internal", legacy)
		assert.Equal(t, "https://dev-services.investree.tech", service)
	})

	t.Run("base URL override applies to every kind", func(t *testing.T) {
		r, err := New("local", WithBaseURLOverride("http://127.0.0.1:8080/"))
		require.NoError(t, err)

		for _, k := range Kinds {
			u, err := r.URL(k)
			require.NoError(t, err)
			assert.Equal(t, "http://127.0.0.1:8080", u)
		}
	})
}

func TestParseTemplates(t *testing.T) {
	data := []byte(`
environments:
  default:
    service: https://{env}.svc.example.test
    legacy: https://{env}.legacy.example.test
  sandbox:
    legacy: https://legacy.sandbox.example.test
`)

	t.Run("env entries win over defaults", func(t *testing.T) {
		got, err := ParseTemplates(data, "sandbox")
		require.NoError(t, err)
		assert.Equal(t, "https://{env}.svc.example.test", got[KindService])
		assert.Equal(t, "https://legacy.sandbox.example.test", got[KindLegacy])
	})

	t.Run("other envs only get defaults", func(t *testing.T) {
		got, err := ParseTemplates(data, "stg")
		require.NoError(t, err)
		assert.Equal(t, "https://{env}.legacy.example.test", got[KindLegacy])
	})

	t.Run("unknown kinds are rejected", func(t *testing.T) {
		_, err := ParseTemplates([]byte("environments:\n  default:\n    bogus: x\n"), "stg")
		require.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseTemplates([]byte("environments: ["), "stg")
		require.Error(t, err)
	})
}
