package feature_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/feature"
)

const sampleYAML = `
extensions:
  suiteNavBar:
    docComponentHeader:
      moreMenu:
        enable: true
        items:
          export:
            enable: false
  content:
    mode: wide
    readonly: true
    padding: [0, 24]
    hyperlinkHandler: outer
    toolbox:
      customToolBoxItem:
        - icon: PaSelfReviewOutlined
          text: Review
          type: Comment
  image:
    viewer: inner
  modal:
    outerMask:
      zIndex: 1000
`

func TestParseYAML(t *testing.T) {
	cfg, err := feature.Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.NotNil(t, cfg.Extensions)

	ext := cfg.Extensions
	assert.True(t, *ext.SuiteNavBar.Header.MoreMenu.Enable)
	assert.False(t, *ext.SuiteNavBar.Header.MoreMenu.Items.Export.Enable)
	assert.Nil(t, ext.SuiteNavBar.Header.MoreMenu.Items.Print)
	assert.Equal(t, feature.ContentModeWide, *ext.Content.Mode)
	assert.Equal(t, []int{0, 24}, ext.Content.Padding)
	assert.Equal(t, feature.OpenOuter, *ext.Content.HyperlinkHandler)
	assert.Equal(t, []feature.ToolBoxItem{{Icon: "PaSelfReviewOutlined", Text: "Review", Type: "Comment"}}, ext.Content.Toolbox.CustomItems)
	assert.Equal(t, feature.OpenInner, *ext.Image.Viewer)
	assert.Equal(t, 1000, *ext.Modal.OuterMask.ZIndex)
	assert.Nil(t, ext.Comment)
}

func TestParseJSON(t *testing.T) {
	cfg, err := feature.Parse([]byte(`{"extensions":{"comment":{"partial":{"open":true}},"like":{"disable":true}}}`))
	require.NoError(t, err)
	assert.True(t, *cfg.Extensions.Comment.Partial.Open)
	assert.True(t, *cfg.Extensions.Like.Disable)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := feature.Parse([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, &feature.Config{}, cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := feature.Parse([]byte("extensions:\n  contnet:\n    readonly: true\n"))
	require.Error(t, err)

	var pe *errors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "yaml", pe.Format)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := feature.Load(path)
	require.NoError(t, err)
	assert.True(t, *cfg.Extensions.Content.Readonly)

	_, err = feature.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"extensions": {"nope": 1}}`), 0o644))
	_, err = feature.Load(bad)
	var pe *errors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad.json", pe.File)
	assert.Equal(t, "json", pe.Format)
}

func TestMarshalRoundTrip(t *testing.T) {
	in := &feature.Config{Extensions: &feature.Extensions{
		Directory: &feature.Directory{Pin: feature.Bool(true)},
		Content:   &feature.Content{Background: feature.String("white"), MaxWidth: feature.Int(960)},
	}}
	data, err := feature.Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "comment")

	out, err := feature.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
