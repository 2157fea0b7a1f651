package redline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxAnnotationID(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want int
	}{
		{
			name: "no ids",
			xml:  `<w:body><w:p><w:r><w:t>plain</w:t></w:r></w:p></w:body>`,
			want: 0,
		},
		{
			name: "mixed comment and change ids",
			xml: `<w:body><w:p>` +
				`<w:commentRangeStart w:id="4"/>` +
				`<w:ins w:id="7" w:author="A" w:date="2024-01-01T00:00:00Z"/>` +
				`<w:del w:id="2" w:author="A" w:date="2024-01-01T00:00:00Z"/>` +
				`</w:p></w:body>`,
			want: 7,
		},
		{
			name: "malformed ids are skipped",
			xml: `<w:body><w:p>` +
				`<w:ins w:id="abc" w:author="A" w:date="x"/>` +
				`<w:del w:id="3" w:author="A" w:date="x"/>` +
				`</w:p></w:body>`,
			want: 3,
		},
		{
			name: "non-w id attributes are ignored",
			xml:  `<w:body><w:p><w:bookmarkStart id="99" w:id="5"/></w:p></w:body>`,
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseXML(t, tt.xml).Root()
			assert.Equal(t, tt.want, maxAnnotationID(root))
		})
	}
}

func TestNextAnnotationIDAcrossTrees(t *testing.T) {
	doc := parseXML(t, `<w:body><w:ins w:id="3" w:author="A" w:date="x"/></w:body>`).Root()
	comments := parseXML(t, `<w:comments><w:comment w:id="8" w:author="B"/></w:comments>`).Root()

	assert.Equal(t, 9, nextAnnotationID(doc, comments))
	assert.Equal(t, 4, nextAnnotationID(doc))
	assert.Equal(t, 1, nextAnnotationID())
}

func TestNextRelationshipID(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "empty part",
			xml:  `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
			want: "rId1",
		},
		{
			name: "takes max plus one, not count",
			xml: `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
				`<Relationship Id="rId7" Type="t" Target="a"/>` +
				`<Relationship Id="rId2" Type="t" Target="b"/>` +
				`</Relationships>`,
			want: "rId8",
		},
		{
			name: "ids without the rId shape are ignored",
			xml: `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
				`<Relationship Id="custom1" Type="t" Target="a"/>` +
				`<Relationship Id="rIdX" Type="t" Target="b"/>` +
				`<Relationship Id="rId3" Type="t" Target="c"/>` +
				`</Relationships>`,
			want: "rId4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseXML(t, tt.xml).Root()
			require.NotNil(t, root)
			assert.Equal(t, tt.want, nextRelationshipID(root))
		})
	}
}
