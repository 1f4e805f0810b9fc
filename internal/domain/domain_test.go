package domain

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"jane@example.com":    true,
		"a.b+c@sub.domain.io": true,
		"no-at-sign.com":      false,
		"two@@example.com":    false,
		"jane@example":        false,
		"ja ne@example.com":   false,
		"":                    false,
	}
	for email, want := range cases {
		assert.Equal(t, want, ValidEmail(email), email)
	}
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrEmailTaken, ErrValidation))
	assert.True(t, errors.Is(ErrPasswordTooShort, ErrValidation))
	assert.True(t, errors.Is(ErrUserNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrProductNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrInvalidPassword, ErrAuth))
	assert.False(t, errors.Is(ErrInvalidPassword, ErrValidation))
}

func TestUserProjections(t *testing.T) {
	u := User{ID: 7, Email: "jane@example.com", Password: "secret1", Name: "Jane Doe"}

	pub := u.Public()
	assert.Equal(t, RoleUser, pub.Role)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Jane%20Doe&background=6366f1&color=fff", pub.ProfilePicture)

	sess := u.Session("tok")
	assert.Equal(t, int64(7), sess.ID)
	assert.Equal(t, "tok", sess.Token)
	assert.False(t, sess.IsAdmin())
}

func TestDiscountPercent(t *testing.T) {
	orig := 1099.0
	p := Product{Price: 999, OriginalPrice: &orig}
	assert.Equal(t, 9, p.DiscountPercent())

	assert.Equal(t, 0, Product{Price: 10}.DiscountPercent())
}

func TestProductCloneIsDeep(t *testing.T) {
	orig := 20.0
	p := Product{Images: []string{"a"}, OriginalPrice: &orig}
	c := p.Clone()
	c.Images[0] = "b"
	*c.OriginalPrice = 30
	assert.Equal(t, "a", p.Images[0])
	assert.Equal(t, 20.0, *p.OriginalPrice)
}

func TestSeedProductsHaveUniqueIDsAndImages(t *testing.T) {
	seen := map[int64]bool{}
	for _, p := range SeedProducts() {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Images, p.Name)
	}
}

func TestProperty_ApplyOnlyTouchesSetFields(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("nil update fields leave the product unchanged", prop.ForAll(
		func(name string, price float64) bool {
			p := Product{Name: "before", Brand: "Acme", Price: 1}
			p.Apply(ProductUpdate{Name: &name, Price: &price})
			return p.Name == name && p.Price == price && p.Brand == "Acme"
		},
		gen.AlphaString(),
		gen.Float64Range(0, 5000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestApply_OriginalPriceAndImages(t *testing.T) {
	orig := 120.0
	p := Product{Price: 90, OriginalPrice: &orig, Images: []string{"a.jpg"}}

	empty := []string{}
	p.Apply(ProductUpdate{Images: &empty})
	assert.Equal(t, []string{"a.jpg"}, p.Images)

	p.Apply(ProductUpdate{ClearOriginalPrice: true})
	assert.Nil(t, p.OriginalPrice)

	assert.ErrorIs(t, ProductUpdate{Images: &empty}.Validate(), ErrNoImages)
	assert.ErrorIs(t, ProductUpdate{OriginalPrice: &orig, ClearOriginalPrice: true}.Validate(), ErrOriginalPriceConflict)
	assert.NoError(t, ProductUpdate{ClearOriginalPrice: true}.Validate())
}
