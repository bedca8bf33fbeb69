package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopSearchURL(t *testing.T) {
	shop := Shop{BaseURL: "https://www.amazon.com/s", AffiliateTag: "glow-20"}
	assert.Equal(t, "https://www.amazon.com/s?k=Vitamin+C+%26+E+serum&tag=glow-20", shop.SearchURL("Vitamin C & E serum"))

	untagged := Shop{BaseURL: "https://shop.example/search"}
	assert.Equal(t, "https://shop.example/search?k=lip+oil", untagged.SearchURL("lip oil"))
}

func TestShopHTMLLinks(t *testing.T) {
	shop := Shop{BaseURL: "https://shop.example/s"}

	tests := []struct {
		name     string
		in       string
		contains []string
		absent   []string
	}{
		{
			name: "single product",
			in:   "<p>Use <product>SPF 50</product> daily.</p>",
			contains: []string{
				`<p>Use <a href="https://shop.example/s?k=SPF+50" class="product-link" target="_blank" rel="noopener noreferrer">Shop for &#34;SPF 50&#34;</a> daily.</p>`,
			},
			absent: []string{"<product>"},
		},
		{
			name: "nested markup uses text content",
			in:   "<ul><li><product><strong>Clay</strong> mask</product></li></ul>",
			contains: []string{
				`href="https://shop.example/s?k=Clay+mask"`,
				"Shop for &#34;Clay mask&#34;",
			},
			absent: []string{"<product>", "<strong>"},
		},
		{
			name:     "empty product is dropped",
			in:       "<p>Nothing <product>  </product>here</p>",
			contains: []string{"<p>Nothing here</p>"},
			absent:   []string{"<product>", "<a "},
		},
		{
			name:     "several products",
			in:       "<p><product>A</product> and <product>B</product></p>",
			contains: []string{`k=A"`, `k=B"`},
			absent:   []string{"<product>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shop.HTMLLinks(tt.in)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.absent {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestShopHTMLLinksWithoutProductsIsUnchanged(t *testing.T) {
	in := "<h1>Title</h1>\n<p>Plain &amp; simple</p>\n"
	got, err := Shop{BaseURL: "https://shop.example/s"}.HTMLLinks(in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestShopMarkdownLinks(t *testing.T) {
	shop := Shop{BaseURL: "https://shop.example/s", AffiliateTag: "t-1"}

	got := shop.MarkdownLinks("Grab <product>Rose [travel] mist</product> and <product> </product>go.")

	assert.Equal(t,
		`Grab [Shop for "Rose \[travel\] mist"](https://shop.example/s?k=Rose+%5Btravel%5D+mist&tag=t-1) and go.`,
		got)
}

func TestLinkLabelKeepsQuotesVerbatim(t *testing.T) {
	assert.Equal(t, `Shop for "He said "hi""`, linkLabel(`He said "hi"`))
	assert.Equal(t, `Shop for "C:\serum"`, linkLabel(`C:\serum`))
}
