package application_test

import (
	"context"
	"testing"

	"github.com/openkraft/uiharness/internal/application"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/openkraft/uiharness/internal/domain/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_Resolve(t *testing.T) {
	nav := application.NewNavigator("https://portal.example.test/")

	tests := []struct {
		in, want string
	}{
		{"/sign-in", "https://portal.example.test/sign-in"},
		{"forgotten-password", "https://portal.example.test/forgotten-password"},
		{"https://other.example.test/x", "https://other.example.test/x"},
		{"http://localhost:8080/", "http://localhost:8080/"},
	}
	for _, tt := range tests {
		got, err := nav.Resolve(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNavigator_MissingBaseURL(t *testing.T) {
	nav := application.NewNavigator("  ")

	err := nav.GoToPath(context.Background(), "/sign-in")
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.ErrorIs(t, err, domain.ErrMissingSetting)
	assert.Contains(t, err.Error(), "baseUrl")

	got, err := nav.Resolve("https://example.test/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/", got)
}

func TestNavigator_GoToPath(t *testing.T) {
	f := newLifecycleFixture()
	lc := f.service()
	ctx, err := lc.Begin(context.Background(), domain.Scenario{Name: "nav"})
	require.NoError(t, err)
	defer lc.End(ctx, domain.StatusPassed)

	nav := application.NewNavigator("https://portal.example.test")
	require.NoError(t, nav.GoToPath(ctx, "/signed-in"))

	page, err := session.CurrentPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example.test/signed-in", page.URL())
}

func TestNavigator_NoSession(t *testing.T) {
	nav := application.NewNavigator("https://portal.example.test")
	err := nav.Open(context.Background(), "/sign-in")
	assert.ErrorIs(t, err, session.ErrNotInitialised)
}
