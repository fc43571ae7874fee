// Package seed creates demo content for development environments. It goes
// through the service layer so seeded articles get slugs, sanitized content
// and search documents exactly like real ones.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"itsour/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// Options controls how much demo content is generated.
type Options struct {
	Articles   int
	Categories int
}

// DefaultOptions seeds a small but browsable site.
func DefaultOptions() Options {
	return Options{Articles: 25, Categories: 4}
}

var tagPool = []string{
	"go", "web", "databases", "search", "devops",
	"testing", "design", "performance", "tooling",
}

// Run populates the database with fake categories and articles.
func Run(ctx context.Context, articles *service.ArticleService, categories *service.CategoryService, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	categoryIDs := make([]uint, 0, opts.Categories)
	for i := 0; i < opts.Categories; i++ {
		category, err := categories.Create(ctx, service.CreateCategoryInput{
			Name:        fmt.Sprintf("%s %s", gofakeit.BuzzWord(), gofakeit.NounAbstract()),
			Description: gofakeit.Sentence(8),
		})
		if err != nil {
			return fmt.Errorf("seeding category %d: %w", i, err)
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	for i := 0; i < opts.Articles; i++ {
		published := rand.Intn(10) > 1 // mostly published, a few drafts
		featured := rand.Intn(10) == 0

		input := service.CreateArticleInput{
			Title:       strings.TrimSuffix(gofakeit.Sentence(rand.Intn(5)+3), "."),
			Content:     fakeArticleBody(),
			Summary:     gofakeit.Sentence(12),
			Author:      gofakeit.Name(),
			Tags:        pickTags(),
			IsPublished: &published,
			Featured:    featured,
		}
		if len(categoryIDs) > 0 && rand.Intn(4) > 0 {
			id := categoryIDs[rand.Intn(len(categoryIDs))]
			input.CategoryID = &id
		}

		if _, err := articles.Create(ctx, input); err != nil {
			return fmt.Errorf("seeding article %d: %w", i, err)
		}
	}
	return nil
}

func fakeArticleBody() string {
	var b strings.Builder
	paragraphs := rand.Intn(4) + 2
	for i := 0; i < paragraphs; i++ {
		if i > 0 && rand.Intn(3) == 0 {
			fmt.Fprintf(&b, "<h2>%s</h2>", strings.TrimSuffix(gofakeit.Sentence(4), "."))
		}
		fmt.Fprintf(&b, "<p>%s</p>", gofakeit.Paragraph(1, 4, 10, " "))
	}
	if rand.Intn(3) == 0 {
		fmt.Fprintf(&b, `<img src="https://picsum.photos/seed/%s/800/400" alt="%s">`,
			gofakeit.UUID(), gofakeit.NounConcrete())
	}
	return b.String()
}

func pickTags() []string {
	n := rand.Intn(4)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, tagPool[rand.Intn(len(tagPool))])
	}
	return tags
}
