package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdviceRecordRoundTrip(t *testing.T) {
	rec := AdviceRecord{
		Insights:        []string{"one", "two"},
		Recommendations: []string{"do this"},
		Summary:         "summary with unicode: 你好 and \"quotes\"",
	}

	blob, err := rec.Encode()
	require.NoError(t, err)

	decoded, err := DecodeAdviceRecord(blob)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestDecodeAdviceRecordRejectsGarbage(t *testing.T) {
	_, err := DecodeAdviceRecord("not json at all")
	assert.Error(t, err)

	_, err = DecodeAdviceRecord("")
	assert.Error(t, err)
}

func TestClampTrimsPreservingOrder(t *testing.T) {
	rec := AdviceRecord{
		Insights:        []string{"1", "2", "3", "4", "5", "6", "7"},
		Recommendations: []string{"a", "b", "c", "d", "e", "f"},
	}
	rec.clamp()

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, rec.Insights)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, rec.Recommendations)
}
