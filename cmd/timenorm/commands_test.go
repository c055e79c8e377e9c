package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/plugin/normalizer"
)

func TestRunNormalize(t *testing.T) {
	in := strings.NewReader(`{"document_id":"cli","reference":"2023-06-14","mentions":[
		{"text":"tomorrow","expr":{"const":"TOMORROW"}},
		{"text":"next Friday","expr":{"op":"NEXT","args":[{"const":"FRIDAY"}]}}
	]}`)
	var out bytes.Buffer
	require.NoError(t, runNormalize(context.Background(), &out, in, &profile.Profile{DefaultTimezone: "UTC"}, ""))

	var doc normalizer.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "cli", doc.ID)
	assert.Equal(t, "UTC", doc.Timezone)
	require.Len(t, doc.Annotations, 2)
	assert.Equal(t, "2023-06-15", doc.Annotations[0].Value)
	assert.Equal(t, "2023-06-16", doc.Annotations[1].Value)
}

func TestRunNormalizeReferenceOverride(t *testing.T) {
	in := strings.NewReader(`{"reference":"2023-06-14","mentions":[{"text":"today","expr":{"const":"TODAY"}}]}`)
	var out bytes.Buffer
	require.NoError(t, runNormalize(context.Background(), &out, in, &profile.Profile{DefaultTimezone: "UTC"}, "2024-01-31"))
	assert.Contains(t, out.String(), `"value": "2024-01-31"`)

	err := runNormalize(context.Background(), &out, strings.NewReader(`{`), &profile.Profile{}, "")
	assert.Error(t, err)
}

func TestRunExpand(t *testing.T) {
	var out bytes.Buffer
	err := runExpand(&out, `{"set":{"base":{"const":"MONDAY"},"quant":"every"}}`, "2023-06-01", "2023-06-30", "UTC", 20)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"RRULE:FREQ=WEEKLY;UNTIL=20230630T235959Z;BYDAY=MO",
		"2023-06-05T00:00:00Z",
		"2023-06-12T00:00:00Z",
		"2023-06-19T00:00:00Z",
		"2023-06-26T00:00:00Z",
	}, "\n")+"\n", out.String())

	out.Reset()
	require.NoError(t, runExpand(&out, `{"set":{"unit":"DAY","scale":3}}`, "", "", "UTC", 20))
	assert.Equal(t, "RRULE:FREQ=DAILY;INTERVAL=3\n", out.String())

	assert.Error(t, runExpand(&out, `{"const":"FRIDAY"}`, "", "", "UTC", 20))
	assert.Error(t, runExpand(&out, `{"set":`, "", "", "UTC", 20))
}

func TestRunConstants(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runConstants(&out, "fri"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Equal(t, []string{"FRIDAY", "DATE", "XXXX-WXX-5"}, strings.Fields(lines[1]))
}
