package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mqttui/mqttui/internal/apperr"
)

func TestRootRegistersAllSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["publish"])
	assert.True(t, names["log"])
	assert.True(t, names["read-one"])
	assert.True(t, names["clean-retained"])
}

func TestPublishAliases(t *testing.T) {
	assert.Contains(t, publishCmd.Aliases, "p")
	assert.Contains(t, publishCmd.Aliases, "pub")
}

func TestPasswordFlagHidden(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("password")
	assert.NotNil(t, f)
	assert.True(t, f.Hidden)
}

func TestResolvePublishBodyFromPositionalArg(t *testing.T) {
	body, err := resolvePublishBody([]string{"topic", "hello"}, "")
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), body)
}

func TestResolvePublishBodyRejectsBothArgAndFile(t *testing.T) {
	_, err := resolvePublishBody([]string{"topic", "hello"}, "payload.txt")
	assert.Error(t, err)
	assert.Equal(t, 2, apperr.ExitCode(err))
}

func TestResolvePublishBodyRequiresOneSource(t *testing.T) {
	_, err := resolvePublishBody([]string{"topic"}, "")
	assert.Error(t, err)
	assert.Equal(t, 2, apperr.ExitCode(err))
}

func TestExactArgsWrongCountIsUsageError(t *testing.T) {
	err := exactArgs(1)(readOneCmd, nil)
	assert.Error(t, err)
	assert.Equal(t, 2, apperr.ExitCode(err))
}

func TestRangeArgsWrongCountIsUsageError(t *testing.T) {
	err := rangeArgs(1, 2)(publishCmd, nil)
	assert.Error(t, err)
	assert.Equal(t, 2, apperr.ExitCode(err))
}

func TestMinimumNArgsTooFewIsUsageError(t *testing.T) {
	err := minimumNArgs(1)(logCmd, nil)
	assert.Error(t, err)
	assert.Equal(t, 2, apperr.ExitCode(err))
}

func TestExactArgsRightCountPasses(t *testing.T) {
	err := exactArgs(1)(readOneCmd, []string{"topic"})
	assert.NoError(t, err)
}
