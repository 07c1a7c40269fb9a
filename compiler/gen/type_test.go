package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScalar(t *testing.T) {
	cases := []struct {
		typ  string
		want Kind
	}{
		{"string", KindString},
		{"number", KindInt},
		{"number.int", KindInt},
		{"number.long", KindLong},
		{"number.float", KindFloat},
		{"number.double", KindDouble},
		{"number.decimal", KindDecimal},
		{"boolean", KindBool},
		{"bool", KindBool},
		{"binary", KindBytes},
		{"timestamp", KindInstant},
		{"timestamp.epoch", KindEpoch},
		{"timestamp.date", KindDate},
	}
	for _, tc := range cases {
		kind, err := resolveScalar(tc.typ)
		require.NoError(t, err, tc.typ)
		assert.Equal(t, tc.want, kind, tc.typ)
	}
}

func TestResolveScalarFamilyDefaults(t *testing.T) {
	kind, err := resolveScalar("number.bignum")
	require.NoError(t, err)
	assert.Equal(t, KindInt, kind)

	kind, err = resolveScalar("timestamp.micros")
	require.NoError(t, err)
	assert.Equal(t, KindInstant, kind)
}

func TestResolveScalarUnknownPrefix(t *testing.T) {
	_, err := resolveScalar("geo.point")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestResolveSetElem(t *testing.T) {
	kind, err := resolveSetElem("stringSet")
	require.NoError(t, err)
	assert.Equal(t, KindString, kind)

	kind, err = resolveSetElem("numberSet")
	require.NoError(t, err)
	assert.Equal(t, KindInt, kind)

	kind, err = resolveSetElem("numberSet.long")
	require.NoError(t, err)
	assert.Equal(t, KindLong, kind)

	_, err = resolveSetElem("list")
	require.Error(t, err)
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindDecimal.Numeric())
	assert.False(t, KindString.Numeric())
	assert.False(t, KindEpoch.Numeric())

	assert.True(t, KindString.KeyCompatible())
	assert.True(t, KindEpoch.KeyCompatible())
	assert.True(t, KindBytes.KeyCompatible())
	assert.False(t, KindBool.KeyCompatible())
	assert.False(t, KindInvalid.KeyCompatible())

	assert.True(t, KindEpoch.KeyIsNumber())
	assert.True(t, KindDecimal.KeyIsNumber())
	assert.False(t, KindInstant.KeyIsNumber())
	assert.False(t, KindString.KeyIsNumber())
}

func TestResolvedTypeShape(t *testing.T) {
	scalar := &ResolvedType{Class: ClassScalar, Kind: KindString}
	enum := &ResolvedType{Class: ClassEnum, Kind: KindString}
	nested := &ResolvedType{Class: ClassGenerated}
	set := &ResolvedType{Class: ClassSetScalar, Kind: KindString}

	assert.True(t, scalar.Scalar())
	assert.True(t, enum.Scalar())
	assert.False(t, nested.Scalar())

	assert.False(t, scalar.Collection())
	assert.True(t, nested.Collection())
	assert.True(t, set.Collection())
}

func TestSplitType(t *testing.T) {
	prefix, suffix := splitType("number.decimal")
	assert.Equal(t, "number", prefix)
	assert.Equal(t, "decimal", suffix)

	prefix, suffix = splitType("string")
	assert.Equal(t, "string", prefix)
	assert.Equal(t, "", suffix)
}
