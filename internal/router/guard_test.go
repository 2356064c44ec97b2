package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_ProtectedRoutesWithoutTokenGoToLogin(t *testing.T) {
	for _, r := range DefaultRoutes() {
		if !r.Meta.RequiresAuth {
			continue
		}
		d := Decide(r.Path, r.Meta, false)
		assert.Equal(t, Redirect, d.Kind, r.Path)
		assert.Equal(t, PathLogin, d.Path, r.Path)
		assert.Equal(t, NoticeLoginRequired, d.Notice)
	}
}

func TestDecide_AuthPagesWithTokenGoToBooks(t *testing.T) {
	for _, p := range []string{PathLogin, PathRegister, "/register/"} {
		d := Decide(p, Meta{RequiresAuth: false}, true)
		assert.Equal(t, Decision{Kind: Redirect, Path: PathBooks}, d, p)
	}
}

func TestDecide_Proceed(t *testing.T) {
	cases := []struct {
		path     string
		meta     Meta
		hasToken bool
	}{
		{PathBooks, Meta{RequiresAuth: true}, true},
		{PathHistory, Meta{RequiresAuth: true}, true},
		{PathLogin, Meta{RequiresAuth: false}, false},
		{PathRegister, Meta{RequiresAuth: false}, false},
		{"/about", Meta{RequiresAuth: false}, true},
	}
	for _, tc := range cases {
		assert.Equal(t, Decision{Kind: Proceed}, Decide(tc.path, tc.meta, tc.hasToken), tc.path)
	}
}

func TestDecide_Scenarios(t *testing.T) {
	d := Decide("/books", Meta{RequiresAuth: true}, false)
	assert.Equal(t, Redirect, d.Kind)
	assert.Equal(t, "/login", d.Path)

	d = Decide("/register", Meta{RequiresAuth: false}, true)
	assert.Equal(t, Redirect, d.Kind)
	assert.Equal(t, "/books", d.Path)
}
