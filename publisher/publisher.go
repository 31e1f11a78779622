package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"ai_article_backend/generator"
)

// PublishParams describes one generated article to write out.
type PublishParams struct {
	Topic  string
	Result generator.Result
	HTML   bool
}

// Output lists the files that were written.
type Output struct {
	MarkdownPath string
	DraftPath    string
	HTMLPath     string
}

// Publisher writes articles under Dir as Markdown and, on request, HTML.
type Publisher struct {
	dir string
	md  goldmark.Markdown
	log *zap.Logger
}

func New(dir string, log *zap.Logger) (*Publisher, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("output directory is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		dir: dir,
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Linkify)),
		log: log,
	}, nil
}

// Publish writes params.Result. Existing files with the same slug are replaced.
func (p *Publisher) Publish(ctx context.Context, params PublishParams) (Output, error) {
	if strings.TrimSpace(params.Result.Article) == "" {
		return Output{}, errors.New("article is empty")
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return Output{}, fmt.Errorf("create output directory: %w", err)
	}

	name := generator.ExtractTitle(params.Result.Article)
	if name == "" {
		name = params.Topic
	}
	slug := Slug(name)

	var out Output
	out.MarkdownPath = filepath.Join(p.dir, slug+".md")
	if err := writeFile(out.MarkdownPath, params.Result.Article); err != nil {
		return Output{}, err
	}
	p.log.Info("wrote article", zap.String("path", out.MarkdownPath))

	if params.Result.BaseArticle != "" {
		out.DraftPath = filepath.Join(p.dir, slug+".draft.md")
		if err := writeFile(out.DraftPath, params.Result.BaseArticle); err != nil {
			return Output{}, err
		}
		p.log.Debug("wrote draft", zap.String("path", out.DraftPath))
	}

	if params.HTML {
		html, err := p.ToHTML(params.Result.Article)
		if err != nil {
			return Output{}, err
		}
		out.HTMLPath = filepath.Join(p.dir, slug+".html")
		if err := writeFile(out.HTMLPath, html); err != nil {
			return Output{}, err
		}
		p.log.Info("wrote html", zap.String("path", out.HTMLPath))
	}
	return out, nil
}

// ToHTML renders article Markdown to an HTML fragment.
func (p *Publisher) ToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

var nonSlug = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slug turns a title into a file name stem.
func Slug(s string) string {
	s = strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if r := []rune(s); len(r) > 80 {
		s = strings.TrimRight(string(r[:80]), "-")
	}
	if s == "" {
		return "article"
	}
	return s
}

func writeFile(path, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
