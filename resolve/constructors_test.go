package resolve_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgekit/forge/resolve"
)

func TestAutoResolve_MostParameterizedSuccessWins(t *testing.T) {
	t.Parallel()

	e := resolve.New(newUniverse())
	dev, err := resolve.Resolve[*Device](e)
	require.NoError(t, err)

	assert.Equal(t, "full", dev.Built)
	require.NotNil(t, dev.Gadget)
	require.NotNil(t, dev.Widget)
	require.NotNil(t, dev.Widget.Gadget)
}

func TestAutoResolve_FallsBackWhenParameterFails(t *testing.T) {
	t.Parallel()

	// *Faulty never constructs, so the (gadget, faulty) rung is skipped and
	// the (gadget) rung is the last success.
	e := resolve.New(newUniverse())
	con, err := resolve.Resolve[*Console](e)
	require.NoError(t, err)

	assert.Equal(t, "gadget", con.Built)
	require.NotNil(t, con.Gadget)
	assert.Nil(t, con.Faulty)

	// The skipped rung leaves a diagnostic, never a silent loss.
	var sawDiag bool
	for _, entry := range resolve.QueryFor[*Console](e.Log()) {
		if entry.Decision.Kind == resolve.DecisionDiagnostic {
			sawDiag = true
		}
	}
	assert.True(t, sawDiag)
}

func TestAutoResolve_AllCandidatesFail_SurfacesFirstCause(t *testing.T) {
	t.Parallel()

	e := resolve.New(newUniverse())
	_, err := resolve.Resolve[*Faulty](e)
	require.Error(t, err)

	var ce resolve.ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.True(t, errors.Is(err, errFaulty))
}

func TestAutoResolve_StrictMode_AmbiguousConstructors(t *testing.T) {
	t.Parallel()

	e := resolve.New(newUniverse(), resolve.WithStrict())
	_, err := resolve.Resolve[*Device](e)
	require.Error(t, err)

	var amb resolve.AmbiguousResolutionError
	require.True(t, errors.As(err, &amb))
	assert.Contains(t, amb.Candidates, "NewDeviceWithGadget")
	assert.Contains(t, amb.Candidates, "NewDeviceFull")
}

func TestSelfReferentialConstructorGuard(t *testing.T) {
	t.Parallel()

	e := resolve.New(newUniverse())

	// Chain has a plain constructor next to the self-referential one.
	chain, err := resolve.Resolve[*Chain](e)
	require.NoError(t, err)
	assert.Equal(t, "plain", chain.Built)

	// Node only has the self-referential constructor: construction fails,
	// it does not recurse.
	_, err = resolve.Resolve[*Node](e)
	require.Error(t, err)
	var ce resolve.ConstructionError
	require.True(t, errors.As(err, &ce))
}

func TestExplicitArgs_ExactMatchPreferred(t *testing.T) {
	t.Parallel()

	e := resolve.New(newUniverse())
	g := &Gadget{Serial: "mine"}

	dev, err := resolve.Resolve[*Device](e, g)
	require.NoError(t, err)
	assert.Equal(t, "gadget", dev.Built)
	assert.Same(t, g, dev.Gadget)
}

func TestExplicitArgs_NilMatchesReferenceParameter(t *testing.T) {
	t.Parallel()

	e := resolve.New(newUniverse())

	dev, err := resolve.Resolve[*Device](e, nil)
	require.NoError(t, err)
	assert.Equal(t, "gadget", dev.Built)
	assert.Nil(t, dev.Gadget)
}

func TestExplicitArgs_NoMatch_Fails(t *testing.T) {
	t.Parallel()

	e := resolve.New(newUniverse())

	_, err := resolve.Resolve[*Device](e, "not a gadget")
	require.Error(t, err)
	var ce resolve.ConstructionError
	require.True(t, errors.As(err, &ce))
}

func TestExplicitArgs_TrailingParameters(t *testing.T) {
	t.Parallel()

	g := &Gadget{Serial: "rig"}

	t.Run("zeroed by default", func(t *testing.T) {
		t.Parallel()

		e := resolve.New(newUniverse())
		rig, err := resolve.Resolve[*Rig](e, g)
		require.NoError(t, err)
		assert.Same(t, g, rig.Gadget)
		assert.Nil(t, rig.Widget)
	})

	t.Run("materialized when enabled", func(t *testing.T) {
		t.Parallel()

		e := resolve.New(newUniverse(), resolve.WithOptionalMaterialization())
		rig, err := resolve.Resolve[*Rig](e, g)
		require.NoError(t, err)
		assert.Same(t, g, rig.Gadget)
		require.NotNil(t, rig.Widget)
		require.NotNil(t, rig.Widget.Gadget)
	})
}

func TestNonPublicConstructorAccess(t *testing.T) {
	t.Parallel()

	t.Run("auto mode escalates when nothing public exists", func(t *testing.T) {
		t.Parallel()

		e := resolve.New(newUniverse())
		box, err := resolve.Resolve[*secretBox](e)
		require.NoError(t, err)
		assert.True(t, box.opened)
	})

	t.Run("ResolveNonPublic considers them from the start", func(t *testing.T) {
		t.Parallel()

		e := resolve.New(newUniverse())
		box, err := resolve.ResolveNonPublic[*secretBox](e)
		require.NoError(t, err)
		assert.True(t, box.opened)
	})
}

func TestZeroValueFallbackForConstructorlessStructs(t *testing.T) {
	t.Parallel()

	e := resolve.New(resolve.NewUniverse())

	p, err := resolve.Resolve[*Plain](e)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 0, p.X)

	cand, ok := e.Log().LatestConstructor(typeOf[*Plain]())
	require.True(t, ok)
	assert.Equal(t, "zero", cand.Name)
}
