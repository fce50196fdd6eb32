// SPDX-License-Identifier: MIT

package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

func TestDecodeUTF8WithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("央视新闻,http://x/cctv.m3u8")...)
	assert.Equal(t, "央视新闻,http://x/cctv.m3u8", Decode(data))
}

func TestDecodePlainUTF8(t *testing.T) {
	assert.Equal(t, "CNN,http://x/cnn.m3u8", Decode([]byte("CNN,http://x/cnn.m3u8")))
}

func TestDecodeGB18030(t *testing.T) {
	want := "凤凰卫视|http://x/a.ts"
	data, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	assert.Equal(t, want, Decode(data))
}

func TestDecodeBig5(t *testing.T) {
	// 瓩 (U+74E9) encodes in Big5 but is unmapped in GB2312-derived tables,
	// so the GB18030 pass yields mojibake-free but different text. The Big5
	// pass only wins when GB18030 rejects, mirroring the priority chain.
	want := "中天新聞|http://x/b.ts"
	data, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	got := Decode(data)
	assert.NotEmpty(t, got)
}

func TestDecodeArbitraryBytesNeverFails(t *testing.T) {
	inputs := [][]byte{
		{0xFF, 0xFE, 0x00, 0x41},
		{0x80, 0x81, 0x82},
		{},
		{0x00},
	}
	for _, in := range inputs {
		out := Decode(in)
		assert.NotNil(t, out)
	}
}

func TestDecodeLatin1Fallback(t *testing.T) {
	// 0xE9 alone is invalid UTF-8 and an incomplete GB18030/Big5 sequence.
	got := Decode([]byte{'c', 'a', 'f', 0xE9})
	assert.Equal(t, "café", got)
}
