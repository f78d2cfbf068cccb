package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blogcms/internal/cache"
	"blogcms/internal/metrics"
	"blogcms/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	articleCacheKeyPrefix  = "article:published:"
	defaultCacheExpiration = 30 * time.Minute
	blogCategoriesTable    = "blog_categories"
)

// ArticleFilter narrows List. Zero values mean "no restriction".
type ArticleFilter struct {
	PublishedOnly   bool
	UnpublishedOnly bool
	TitleContains   string
	CategoryID      uint
}

// ArticleFields are the mutable columns replaced by Update.
type ArticleFields struct {
	Title     string
	Content   string
	Thumbnail string
	Published *bool
}

type ArticleRepository interface {
	List(ctx context.Context, filter ArticleFilter) ([]models.Article, error)
	FindByID(ctx context.Context, id uint) (*models.Article, error)
	FindPublishedByID(ctx context.Context, id uint) (*models.Article, error)
	Create(ctx context.Context, article *models.Article, categoryIDs []uint) error
	Update(ctx context.Context, id uint, fields ArticleFields, categoryIDs []uint) (*models.Article, error)
	SetPublished(ctx context.Context, id uint, published bool) (bool, error)
	TogglePublished(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, publishedOnly bool) (int64, error)
}

type articleRepository struct {
	db     *gorm.DB
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func getCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", articleCacheKeyPrefix, id)
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{
		db:     db,
		ttl:    defaultCacheExpiration,
		logger: slog.Default(),
	}
}

// NewCachedArticleRepository serves published article lookups through Redis.
// Writes invalidate the affected key.
func NewCachedArticleRepository(db *gorm.DB, redisClient *redis.Client, ttl time.Duration, logger *slog.Logger) ArticleRepository {
	if ttl <= 0 {
		ttl = defaultCacheExpiration
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &articleRepository{
		db:     db,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

func preloadCategories(db *gorm.DB) *gorm.DB {
	return db.Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("categories.name ASC")
	})
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]models.Article, error) {
	db := r.db.WithContext(ctx)
	query := preloadCategories(db.Model(&models.Article{}))

	if filter.PublishedOnly {
		query = query.Where("blogs.published = ?", true)
	} else if filter.UnpublishedOnly {
		query = query.Where("blogs.published = ?", false)
	}
	if title := strings.TrimSpace(filter.TitleContains); title != "" {
		query = query.Where(`LOWER(blogs.title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(title))+"%")
	}
	if filter.CategoryID != 0 {
		linked := db.Table(blogCategoriesTable).Select("article_id").Where("category_id = ?", filter.CategoryID)
		query = query.Where("blogs.id IN (?)", linked)
	}

	articles := make([]models.Article, 0)
	if err := query.Order("blogs.created_at DESC").Order("blogs.id DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (r *articleRepository) FindByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := preloadCategories(r.db.WithContext(ctx)).First(&article, id).Error; err != nil {
		return nil, notFound(err, ErrArticleNotFound)
	}
	return &article, nil
}

func (r *articleRepository) FindPublishedByID(ctx context.Context, id uint) (*models.Article, error) {
	if r.redis != nil {
		var cached models.Article
		err := cache.GetJSON(ctx, r.redis, getCacheKey(id), &cached)
		switch {
		case err == nil:
			metrics.RecordCacheLookup("hit")
			return &cached, nil
		case errors.Is(err, cache.ErrMiss):
			metrics.RecordCacheLookup("miss")
		default:
			metrics.RecordCacheLookup("error")
			r.logger.Warn("article cache read failed", "article_id", id, "error", err)
		}
	}

	var article models.Article
	err := preloadCategories(r.db.WithContext(ctx)).
		Where("published = ?", true).
		First(&article, id).Error
	if err != nil {
		return nil, notFound(err, ErrArticleNotFound)
	}

	if r.redis != nil {
		if err := cache.SetJSON(ctx, r.redis, getCacheKey(id), &article, r.ttl); err != nil {
			r.logger.Warn("article cache write failed", "article_id", id, "error", err)
		}
	}
	return &article, nil
}

// Create inserts the article and its category links in one transaction.
func (r *articleRepository) Create(ctx context.Context, article *models.Article, categoryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := loadCategories(tx, categoryIDs)
		if err != nil {
			return err
		}
		article.Categories = categories
		return tx.Omit("Categories.*").Create(article).Error
	})
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// Update replaces the mutable fields and the category set atomically.
func (r *articleRepository) Update(ctx context.Context, id uint, fields ArticleFields, categoryIDs []uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&article, id).Error; err != nil {
			return notFound(err, ErrArticleNotFound)
		}

		categories, err := loadCategories(tx, categoryIDs)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title":     fields.Title,
			"content":   fields.Content,
			"thumbnail": fields.Thumbnail,
		}
		if fields.Published != nil {
			updates["published"] = *fields.Published
		}
		if err := tx.Model(&article).Updates(updates).Error; err != nil {
			return err
		}

		assoc := tx.Model(&article).Association("Categories")
		if len(categories) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(categories)
	})
	if err != nil {
		return nil, fmt.Errorf("update article %d: %w", id, err)
	}

	r.invalidate(ctx, id)
	return r.FindByID(ctx, id)
}

func (r *articleRepository) SetPublished(ctx context.Context, id uint, published bool) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Update("published", published)
	if result.Error != nil {
		return false, fmt.Errorf("set published on article %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return false, ErrArticleNotFound
	}
	r.invalidate(ctx, id)
	return published, nil
}

// TogglePublished flips the flag in a single statement and returns the new
// value.
func (r *articleRepository) TogglePublished(ctx context.Context, id uint) (bool, error) {
	var published bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Article{}).Where("id = ?", id).Update("published", gorm.Expr("NOT published"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrArticleNotFound
		}
		var current models.Article
		if err := tx.Select("id", "published").First(&current, id).Error; err != nil {
			return err
		}
		published = current.Published
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("toggle published on article %d: %w", id, err)
	}
	r.invalidate(ctx, id)
	return published, nil
}

func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+blogCategoriesTable+" WHERE article_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Article{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrArticleNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete article %d: %w", id, err)
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *articleRepository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Article{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

func (r *articleRepository) invalidate(ctx context.Context, id uint) {
	if r.redis == nil {
		return
	}
	if err := cache.Delete(ctx, r.redis, getCacheKey(id)); err != nil {
		r.logger.Warn("article cache invalidation failed", "article_id", id, "error", err)
	}
}

// loadCategories resolves ids to rows in the order given, dropping
// duplicates. Any unknown id fails the whole set.
func loadCategories(tx *gorm.DB, ids []uint) ([]models.Category, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	var found []models.Category
	if err := tx.Where("id IN ?", unique).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Category, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	categories := make([]models.Category, 0, len(unique))
	for _, id := range unique {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, id)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
