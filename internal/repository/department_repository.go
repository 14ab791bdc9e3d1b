package repository

import (
	"context"
	"errors"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
)

// DepartmentRepository хранит дерево подразделений организации
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, orgID, id int64) (*domain.Department, error)
	GetByIDWithChildren(ctx context.Context, orgID, id int64, depth int, includeEmployees bool) (*domain.Department, error)
	List(ctx context.Context, orgID int64) ([]domain.Department, error)
	Update(ctx context.Context, dept *domain.Department) error
	DeleteMany(ctx context.Context, orgID int64, ids []int64) error
	ExistsByNameAndParent(ctx context.Context, orgID int64, name string, parentID *int64, excludeID *int64) (bool, error)
	IsDescendant(ctx context.Context, orgID, ancestorID, candidateID int64) (bool, error)
	GetAllDescendantIDs(ctx context.Context, orgID, id int64) ([]int64, error)
}

// subtreeCTE перечисляет потомков подразделения внутри одной организации.
// WITH RECURSIVE работает и в PostgreSQL, и в SQLite.
const subtreeCTE = `
	WITH RECURSIVE subtree AS (
		SELECT id FROM departments WHERE parent_id = ? AND organization_id = ?
		UNION ALL
		SELECT d.id FROM departments d
		INNER JOIN subtree s ON d.parent_id = s.id
		WHERE d.organization_id = ?
	)`

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository создаёт новый экземпляр репозитория
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func inOrg(orgID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", orgID)
	}
}

func withEmployees(include bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !include {
			return db
		}
		return db.Preload("Employees", func(db *gorm.DB) *gorm.DB {
			return db.Order("full_name ASC")
		})
	}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	return conn(ctx, r.db).Omit("Parent", "Children", "Employees").Create(dept).Error
}

func (r *departmentRepository) GetByID(ctx context.Context, orgID, id int64) (*domain.Department, error) {
	return r.first(conn(ctx, r.db).Scopes(inOrg(orgID)), id)
}

func (r *departmentRepository) first(db *gorm.DB, id int64) (*domain.Department, error) {
	var dept domain.Department
	if err := db.First(&dept, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &dept, nil
}

// GetByIDWithChildren загружает поддерево на depth уровней вниз.
// Каждый уровень читается одним запросом по всем родителям сразу.
func (r *departmentRepository) GetByIDWithChildren(ctx context.Context, orgID, id int64, depth int, includeEmployees bool) (*domain.Department, error) {
	db := conn(ctx, r.db)

	root, err := r.first(db.Scopes(inOrg(orgID), withEmployees(includeEmployees)), id)
	if err != nil {
		return nil, err
	}

	level := []*domain.Department{root}
	for ; depth > 0 && len(level) > 0; depth-- {
		parents := make(map[int64]*domain.Department, len(level))
		ids := make([]int64, 0, len(level))
		for _, d := range level {
			parents[d.ID] = d
			ids = append(ids, d.ID)
		}

		var children []domain.Department
		err := db.Scopes(inOrg(orgID), withEmployees(includeEmployees)).
			Where("parent_id IN ?", ids).
			Order("name ASC").
			Find(&children).Error
		if err != nil {
			return nil, err
		}

		for i := range children {
			p := parents[*children[i].ParentID]
			p.Children = append(p.Children, children[i])
		}

		// указатели берём после заполнения, чтобы не держать ссылки на старые массивы
		next := make([]*domain.Department, 0, len(children))
		for _, d := range level {
			for i := range d.Children {
				next = append(next, &d.Children[i])
			}
		}
		level = next
	}

	return root, nil
}

func (r *departmentRepository) List(ctx context.Context, orgID int64) ([]domain.Department, error) {
	var depts []domain.Department
	err := conn(ctx, r.db).
		Scopes(inOrg(orgID)).
		Order("name ASC, id ASC").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	return conn(ctx, r.db).
		Model(dept).
		Select("name", "parent_id", "updated_by").
		Updates(dept).Error
}

func (r *departmentRepository) DeleteMany(ctx context.Context, orgID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	res := conn(ctx, r.db).
		Scopes(inOrg(orgID)).
		Where("id IN ?", ids).
		Delete(&domain.Department{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

func (r *departmentRepository) ExistsByNameAndParent(ctx context.Context, orgID int64, name string, parentID *int64, excludeID *int64) (bool, error) {
	sameParent := func(db *gorm.DB) *gorm.DB {
		if parentID == nil {
			return db.Where("parent_id IS NULL")
		}
		return db.Where("parent_id = ?", *parentID)
	}
	notSelf := func(db *gorm.DB) *gorm.DB {
		if excludeID == nil {
			return db
		}
		return db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := conn(ctx, r.db).Model(&domain.Department{}).
		Scopes(inOrg(orgID), sameParent, notSelf).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// IsDescendant сообщает, лежит ли candidateID в поддереве ancestorID
func (r *departmentRepository) IsDescendant(ctx context.Context, orgID, ancestorID, candidateID int64) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Raw(subtreeCTE+` SELECT COUNT(*) FROM subtree WHERE id = ?`,
			ancestorID, orgID, orgID, candidateID).
		Scan(&count).Error
	return count > 0, err
}

func (r *departmentRepository) GetAllDescendantIDs(ctx context.Context, orgID, id int64) ([]int64, error) {
	var ids []int64
	err := conn(ctx, r.db).
		Raw(subtreeCTE+` SELECT id FROM subtree`, id, orgID, orgID).
		Scan(&ids).Error
	return ids, err
}
