package ioanalysis

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
	"github.com/gnames/gndocs/pkg/nlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelConversion(t *testing.T) {
	a, err := nlp.NewRuleAnalyzer()
	require.NoError(t, err)
	res, err := a.Analyze(context.Background(), "Dogs barked at 3 cats.")
	require.NoError(t, err)

	row, err := toModel(5, res)
	require.NoError(t, err)
	assert.Equal(t, int64(5), row.DocumentID)
	assert.Zero(t, row.ID)
	assert.JSONEq(t,
		`["Dogs","barked","at","3","cats","."]`,
		string(row.Tokens))
	assert.Contains(t, string(row.Morphs), `["cats",{`)

	back, err := fromModel(row)
	require.NoError(t, err)
	assert.Equal(t, res, back)
}

func TestFromModelEmptyColumns(t *testing.T) {
	row, err := toModel(1, &nlp.Result{})
	require.NoError(t, err)
	row.Entities = nil

	res, err := fromModel(row)
	require.NoError(t, err)
	assert.NotNil(t, res.Entities)
	assert.Empty(t, res.Entities)
}

func TestNewStoreNilPool(t *testing.T) {
	_, err := NewStore(nil)
	require.Error(t, err)
	assert.Equal(t, errcode.DBNotConnectedError, err.(*gn.Error).Code)
}
