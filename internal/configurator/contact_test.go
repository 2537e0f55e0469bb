package configurator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContact_Missing(t *testing.T) {
	c := Contact{LastName: "Doe", Phone: "123"}
	assert.Equal(t, []Field{FieldFirstName, FieldEmail}, c.Missing())
	assert.False(t, c.Valid())

	c.FirstName = "Jane"
	c.Email = "jane@example.com"
	assert.Empty(t, c.Missing())
	assert.True(t, c.Valid())
}

func TestContact_SetGet(t *testing.T) {
	var c Contact
	for _, f := range []Field{FieldFirstName, FieldLastName, FieldEmail, FieldPhone} {
		c.Set(f, f.String())
	}
	for _, f := range []Field{FieldFirstName, FieldLastName, FieldEmail, FieldPhone} {
		assert.Equal(t, f.String(), c.Get(f))
	}
	assert.Equal(t, "", c.Get(Field(42)))
}

func TestContact_FullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Contact{FirstName: " Jane", LastName: "Doe "}.FullName())
	assert.Equal(t, "Jane", Contact{FirstName: "Jane"}.FullName())
}
