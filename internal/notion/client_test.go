package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/syllaboss/internal/blocks"
)

type fakeNotion struct {
	searchResults []string
	searchStatus  int
	createStatus  int
	created       atomic.Pointer[createPageRequest]
	auth          atomic.Value
}

func (f *fakeNotion) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.auth.Store(r.Header.Get("Authorization"))
		assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))
		switch r.URL.Path {
		case "/v1/search":
			if f.searchStatus != 0 {
				w.WriteHeader(f.searchStatus)
				io.WriteString(w, `{"object":"error","message":"unauthorized"}`)
				return
			}
			results := make([]map[string]string, 0, len(f.searchResults))
			for _, id := range f.searchResults {
				results = append(results, map[string]string{"id": id})
			}
			json.NewEncoder(w).Encode(map[string]any{"results": results})
		case "/v1/pages":
			if f.createStatus != 0 {
				w.WriteHeader(f.createStatus)
				io.WriteString(w, `{"object":"error","message":"body failed validation"}`)
				return
			}
			var req createPageRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.created.Store(&req)
			json.NewEncoder(w).Encode(map[string]string{"id": "page-123", "url": "https://www.notion.so/page-123"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestPublish_UsesFirstSearchResultAsParent(t *testing.T) {
	fake := &fakeNotion{searchResults: []string{"parent-1", "parent-2"}}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := NewClient(ts.URL, "", 0, time.Second)
	res, err := c.Publish(context.Background(), "ntn_secret", "CPSC 330", blocks.Convert("# Title\n\nBody"))
	require.NoError(t, err)

	assert.Equal(t, "https://www.notion.so/page-123", res.URL)
	assert.Equal(t, "page-123", res.PageID)
	assert.Equal(t, 2, res.Blocks)
	assert.Equal(t, 0, res.Dropped)
	assert.Equal(t, "Bearer ntn_secret", fake.auth.Load())

	req := fake.created.Load()
	require.NotNil(t, req)
	assert.Equal(t, "page_id", req.Parent.Type)
	assert.Equal(t, "parent-1", req.Parent.PageID)
	require.Len(t, req.Properties.Title.Title, 1)
	assert.Equal(t, "CPSC 330", req.Properties.Title.Title[0].Text.Content)
	require.Len(t, req.Children, 2)
	assert.Equal(t, "heading_1", req.Children[0].Type)
	assert.Equal(t, "paragraph", req.Children[1].Type)
}

func TestPublish_WorkspaceParentWhenNoPages(t *testing.T) {
	fake := &fakeNotion{}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := NewClient(ts.URL, "", 0, time.Second)
	_, err := c.Publish(context.Background(), "tok", "T", []blocks.Block{blocks.Divider()})
	require.NoError(t, err)

	req := fake.created.Load()
	require.NotNil(t, req)
	assert.Equal(t, "workspace", req.Parent.Type)
	assert.True(t, req.Parent.Workspace)
}

func TestPublish_CapsBlockCount(t *testing.T) {
	fake := &fakeNotion{searchResults: []string{"p"}}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	var md strings.Builder
	for range 130 {
		md.WriteString("line\n")
	}
	c := NewClient(ts.URL, "", 100, time.Second)
	res, err := c.Publish(context.Background(), "tok", "T", blocks.Convert(md.String()))
	require.NoError(t, err)

	assert.Equal(t, 100, res.Blocks)
	assert.Equal(t, 30, res.Dropped)
	assert.Len(t, fake.created.Load().Children, 100)
}

func TestPublish_SearchFailure(t *testing.T) {
	fake := &fakeNotion{searchStatus: http.StatusUnauthorized}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := NewClient(ts.URL, "", 0, time.Second)
	_, err := c.Publish(context.Background(), "bad", "T", nil)
	require.Error(t, err)

	var nerr *Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "search", nerr.Op)
	assert.Equal(t, http.StatusUnauthorized, nerr.StatusCode)
	assert.Contains(t, nerr.Body, "unauthorized")
	assert.Nil(t, fake.created.Load(), "page must not be created after a failed search")
}

func TestPublish_CreateFailure(t *testing.T) {
	fake := &fakeNotion{createStatus: http.StatusBadRequest}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := NewClient(ts.URL, "", 0, time.Second)
	_, err := c.Publish(context.Background(), "tok", "T", nil)

	var nerr *Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "create page", nerr.Op)
	assert.Equal(t, http.StatusBadRequest, nerr.StatusCode)
}

func TestChildren_Table(t *testing.T) {
	bs := blocks.Convert("| Name | Link |\n| --- | --- |\n| Piazza | piazza.com |\n| Canvas | |")
	got := Children(bs)
	require.Len(t, got, 1)

	tbl := got[0].Table
	require.NotNil(t, tbl)
	assert.Equal(t, 2, tbl.TableWidth)
	assert.True(t, tbl.HasColumnHeader)
	require.Len(t, tbl.Children, 3)
	assert.Equal(t, "table_row", tbl.Children[0].Type)
	assert.Equal(t, "Name", tbl.Children[0].TableRow.Cells[0][0].Text.Content)
	assert.Equal(t, "piazza.com", tbl.Children[1].TableRow.Cells[1][0].Text.Content)
	assert.Empty(t, tbl.Children[2].TableRow.Cells[1])
}

func TestChildren_DividerAndHeadings(t *testing.T) {
	got := Children(blocks.Convert("# A\n## B\n### C\n---"))
	require.Len(t, got, 4)
	assert.Equal(t, "heading_1", got[0].Type)
	assert.Equal(t, "heading_2", got[1].Type)
	assert.Equal(t, "heading_3", got[2].Type)
	assert.Equal(t, "divider", got[3].Type)

	data, err := json.Marshal(got[3])
	require.NoError(t, err)
	assert.JSONEq(t, `{"object":"block","type":"divider","divider":{}}`, string(data))
}

func TestRichText_SplitsLongContent(t *testing.T) {
	got := richText(strings.Repeat("é", 4500))
	require.Len(t, got, 3)
	assert.Len(t, []rune(got[0].Text.Content), 2000)
	assert.Len(t, []rune(got[2].Text.Content), 500)
	assert.Empty(t, richText(""))
}
