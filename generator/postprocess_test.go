package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostProcess(t *testing.T) {
	out, err := PostProcess("\n  # Title\n\nbody  \n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", out)

	out, err = PostProcess("```markdown\n# Title\n\nbody\n```")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", out)

	_, err = PostProcess(" \n\t")
	assert.Error(t, err)

	_, err = PostProcess("```\n\n```")
	assert.Error(t, err)
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Solar power", ExtractTitle("intro\n# Solar power\n## Part"))
	assert.Equal(t, "", ExtractTitle("## Only a subheading"))
}

func TestHasReferences(t *testing.T) {
	assert.True(t, HasReferences("body\n\nReferences\n[1] x"))
	assert.True(t, HasReferences("body\n\n## References\n[1] x"))
	assert.True(t, HasReferences("body\n\n**References**\n[1] x"))
	assert.False(t, HasReferences("See the references below."))
}
