package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactRecord_IsEmptyAndHasContact(t *testing.T) {
	assert.True(t, ContactRecord{}.IsEmpty())
	assert.False(t, ContactRecord{}.HasContact())

	withAddress := ContactRecord{Address: "台北市信義區信義路五段100號"}
	assert.False(t, withAddress.IsEmpty())
	assert.False(t, withAddress.HasContact(), "an address alone is not a contact channel")

	withPhone := ContactRecord{Phone: "02-1234-5678"}
	assert.True(t, withPhone.HasContact())
}

func TestContactRecord_Get(t *testing.T) {
	rec := ContactRecord{Phone: "02-1234-5678", Services: "系統整合"}
	assert.Equal(t, "02-1234-5678", rec.Get(FieldPhone))
	assert.Equal(t, "系統整合", rec.Get(FieldServices))
	assert.Empty(t, rec.Get(FieldName("bogus")))
}

func TestValidation_Summary(t *testing.T) {
	rec := ContactRecord{Phone: "02-1234-5678", Email: "a@b.tw"}
	v := Validation{Phone: true, Email: true}
	s := v.Summary(rec)
	assert.Contains(t, s, "phone:02-1234-5678")
	assert.Contains(t, s, "email:a@b.tw")
	assert.Contains(t, s, "quality 33%")
}
