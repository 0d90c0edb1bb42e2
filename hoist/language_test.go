package hoist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	require.Equal(t, []string{"javascript", "tsx"}, List())

	require.Equal(t, "tsx", Get("tsx").Name())
	require.Nil(t, Get("python"))

	require.Equal(t, "tsx", ByExtension(".tsx").Name())
	require.Equal(t, "javascript", ByExtension(".jsx").Name())
	require.Nil(t, ByExtension(".ts"))

	for _, name := range List() {
		lang := Get(name)
		require.NotNil(t, lang.TreeSitterLang(), name)
		require.NotEmpty(t, lang.CandidatesQuery(), name)
	}
}

func TestResolveLanguages(t *testing.T) {
	all, err := resolveLanguages(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	one, err := resolveLanguages([]string{"javascript"})
	require.NoError(t, err)
	require.Equal(t, []Language{Get("javascript")}, one)

	_, err = resolveLanguages([]string{"tsx", "vue"})
	require.ErrorIs(t, err, ErrLanguageNotRegistered)
	require.ErrorContains(t, err, "vue")
}

func TestCandidatesQueriesCompile(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			lang := Get(name)
			q, err := newQuery(lang.CandidatesQuery(), lang)
			require.NoError(t, err)
			require.NotNil(t, q)
		})
	}
}
