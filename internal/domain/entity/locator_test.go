package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorFactories(t *testing.T) {
	tests := []struct {
		loc  Locator
		kind LocatorKind
		str  string
	}{
		{ByClassName("btn"), LocatorClassName, "ClassName=btn"},
		{ByCSSSelector("#a > b"), LocatorCSSSelector, "CssSelector=#a > b"},
		{ByID("submit"), LocatorID, "Id=submit"},
		{ByLinkText("Home"), LocatorLinkText, "LinkText=Home"},
		{ByName("q"), LocatorName, "Name=q"},
		{ByPartialLinkText("Ho"), LocatorPartialLinkText, "PartialLinkText=Ho"},
		{ByTagName("li"), LocatorTagName, "TagName=li"},
		{ByXPath("//li"), LocatorXPath, "XPath=//li"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.loc.Kind())
			assert.Equal(t, tt.str, tt.loc.String())
			assert.False(t, tt.loc.IsZero())
		})
	}
	assert.True(t, Locator{}.IsZero())
}

func TestParseLocatorKind(t *testing.T) {
	k, err := ParseLocatorKind("css")
	require.NoError(t, err)
	assert.Equal(t, LocatorCSSSelector, k)

	k, err = ParseLocatorKind("XPath")
	require.NoError(t, err)
	assert.Equal(t, LocatorXPath, k)

	_, err = ParseLocatorKind("shadow")
	assert.Error(t, err)

	_, err = NewLocator(LocatorKind(42), "x")
	assert.Error(t, err)
	loc, err := NewLocator(LocatorID, "x")
	require.NoError(t, err)
	assert.Equal(t, ByID("x"), loc)
}

func TestParsePlatform(t *testing.T) {
	for _, s := range []string{"windows", "darwin", "linux"} {
		p, err := ParsePlatform(s)
		require.NoError(t, err)
		assert.Equal(t, Platform(s), p)
	}
	_, err := ParsePlatform("plan9")
	assert.Error(t, err)
}
