package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simeonreusch/planobs/core/plan"
)

func TestIsZTFName(t *testing.T) {
	assert.True(t, IsZTFName("ZTF19accdntg"))
	assert.True(t, IsZTFName("ZTF22abcdefg"))

	assert.False(t, IsZTFName("ZTF19accdnt"))   // too short
	assert.False(t, IsZTFName("ZTF19accdntgx")) // too long
	assert.False(t, IsZTFName("ZTF19accdntG"))  // uppercase suffix
	assert.False(t, IsZTFName("ZTF09accdntg"))  // bad decade
	assert.False(t, IsZTFName("IC220501A"))
}

func TestIsIceCubeName(t *testing.T) {
	assert.True(t, IsIceCubeName("IC220501A"))
	assert.True(t, IsIceCubeName("IC201021B"))
	assert.True(t, IsIceCubeName("IC200229A")) // leap day in a leap year

	assert.False(t, IsIceCubeName("IC210229A")) // leap day in a common year
	assert.False(t, IsIceCubeName("IC220431A")) // April has 30 days
	assert.False(t, IsIceCubeName("IC221301A")) // month 13
	assert.False(t, IsIceCubeName("IC220500A")) // day 0
	assert.False(t, IsIceCubeName("IC220501"))  // missing letter suffix
	assert.False(t, IsIceCubeName("220501A"))   // missing prefix
	assert.False(t, IsIceCubeName("ZTF19accdntg"))
}

func TestCheckName(t *testing.T) {
	require.NoError(t, CheckName("IC220501A", "icecube"))
	require.NoError(t, CheckName("ZTF19accdntg", "ztf"))

	assert.Error(t, CheckName("notaname", "icecube"))
	assert.Error(t, CheckName("IC220501A", "ztf"))

	// Unknown sources skip name validation.
	require.NoError(t, CheckName("anything", "manual"))
}

func TestStaticResolver(t *testing.T) {
	r := Static{
		"IC220501A": {Name: "IC220501A", RADeg: 171.5, DecDeg: 10.1},
	}

	target, err := r.Resolve(context.Background(), "IC220501A")
	require.NoError(t, err)
	assert.Equal(t, 171.5, target.RADeg)

	_, err = r.Resolve(context.Background(), "IC990101A")
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "No GCN notice/circular found.", rerr.Reason)
}

func TestFuncResolver(t *testing.T) {
	f := Func(func(_ context.Context, name string) (plan.Target, error) {
		if name == "future" {
			return plan.Target{}, ErrFutureAlert
		}
		return plan.Target{Name: name}, nil
	})

	target, err := f.Resolve(context.Background(), "IC220501A")
	require.NoError(t, err)
	assert.Equal(t, "IC220501A", target.Name)

	_, err = f.Resolve(context.Background(), "future")
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Alert is from the future.", rerr.Reason)
}
