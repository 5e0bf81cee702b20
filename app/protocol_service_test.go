package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsantini/nimpulseqgui/app"
	"github.com/fsantini/nimpulseqgui/domain/core"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/internal/testkit"
	"github.com/fsantini/nimpulseqgui/ports"
)

func newService(o ports.Oracle, live *protocol.Protocol) *app.ProtocolService {
	return app.NewProtocolService(live, testkit.Wrap(o), nil, nil, zerolog.Nop())
}

func TestSetValue_CommitsAcceptedEdit(t *testing.T) {
	live := testkit.MixedProtocol()
	svc := newService(testkit.NewThresholdOracle("TE", 1.2, 1e9), live)

	require.NoError(t, svc.ValidateCurrent(context.Background()))
	require.NoError(t, svc.SetValue(context.Background(), "Averages", "8"))

	prop, _ := live.Get("Averages")
	assert.EqualValues(t, 8, prop.(*protocol.IntegerProperty).Value)
	assert.True(t, prop.Meta().Changed)
}

func TestSetValue_RejectedEditIsNoOp(t *testing.T) {
	live := testkit.MixedProtocol()
	svc := newService(testkit.NewThresholdOracle("TE", 1.2, 1e9), live)

	err := svc.SetValue(context.Background(), "TE", "1.1")
	require.Error(t, err)
	assert.True(t, core.IsValidationFailure(err))

	prop, _ := live.Get("TE")
	assert.Equal(t, 5.0, prop.(*protocol.RealProperty).Value)
	assert.False(t, prop.Meta().Changed)
}

func TestSetValue_SearchRefinesBounds(t *testing.T) {
	live := testkit.MixedProtocol()
	svc := newService(testkit.NewThresholdOracle("TE", 1.2, 1e9), live)

	require.NoError(t, svc.SetValue(context.Background(), "TE", "3.0"))

	prop, _ := live.Get("TE")
	te := prop.(*protocol.RealProperty)
	assert.Equal(t, 3.0, te.Value)
	assert.InDelta(t, 1.2, te.Min, 0.1+1e-9, "min must be refined to within one step of the threshold")
	assert.Greater(t, te.Max, 99.0, "max side is unconstrained and stays near the declared bound")
}

func TestSetValue_ToggleRefused(t *testing.T) {
	live := testkit.MixedProtocol()
	// Accepts only the current state: any toggle probe is rejected.
	svc := newService(&testkit.SelectionOracle{Property: "Variant", Accepted: map[string]bool{}}, live)

	err := svc.SetValue(context.Background(), "Spoiling", "False")
	require.Error(t, err)
	assert.True(t, core.IsValidationFailure(err))

	prop, _ := live.Get("Spoiling")
	assert.True(t, prop.(*protocol.BooleanProperty).Value)
}

func TestSetValue_EnumRejectsNonCandidate(t *testing.T) {
	live := testkit.MixedProtocol()
	svc := newService(&testkit.AcceptAllOracle{}, live)

	err := svc.SetValue(context.Background(), "Variant", "turbo")
	require.Error(t, err)
	assert.True(t, core.IsValidationFailure(err))
}

func TestSearch_FiltersEnumCandidates(t *testing.T) {
	live := testkit.MixedProtocol()
	svc := newService(&testkit.SelectionOracle{Property: "Variant", Accepted: map[string]bool{"spoiled": true, "fid": true}}, live)

	require.NoError(t, svc.Search(context.Background(), "Variant"))

	prop, _ := live.Get("Variant")
	assert.Equal(t, []string{"spoiled", "fid"}, prop.(*protocol.EnumeratedProperty).Candidates)
}

func TestSearch_DisabledPropertyRefused(t *testing.T) {
	live := testkit.MixedProtocol()
	svc := newService(&testkit.AcceptAllOracle{}, live)

	err := svc.Search(context.Background(), "Averages")
	require.Error(t, err)
}

func TestLoadArtifact_AppliesRecognizedFields(t *testing.T) {
	live := testkit.MixedProtocol()
	svc := newService(&testkit.AcceptAllOracle{}, live)

	host := "[NimPulseqGUI Protocol]\nTE: 2.5\nExtra: 1\n[NimPulseqGUI Protocol End]\n"
	warnings, err := svc.LoadArtifact(context.Background(), strings.NewReader(host))
	require.NoError(t, err)
	assert.Len(t, warnings, 1)

	prop, _ := live.Get("TE")
	assert.Equal(t, 2.5, prop.(*protocol.RealProperty).Value)
}

func TestBuildSequence_ReportsValidationFailure(t *testing.T) {
	live := testkit.MixedProtocol()
	svc := newService(&testkit.RejectAllOracle{}, live)

	_, err := svc.BuildSequence(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsValidationFailure(err))
}
