package services

import (
	"context"
	"fmt"
	"strings"

	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/core/domain"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AnalyticsService answers the read-only admin reports
type AnalyticsService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *gorm.DB, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, log: log}
}

// ============================================================
// Report rows
// ============================================================

// YearRevenue is the summed payment total of one calendar year
type YearRevenue struct {
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
}

// CropCount is the number of registrations of one crop name
type CropCount struct {
	Name  string `json:"name"`
	Count int64  `gorm:"column:crop_count" json:"count"`
}

// RegionRevenue is the summed payment total of one farmer region
type RegionRevenue struct {
	Region  string  `json:"region"`
	Revenue float64 `json:"revenue"`
}

// AgentSummary is an agent with the number of distinct farmers across its crops
type AgentSummary struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Region          string `json:"region"`
	AssignedFarmers int64  `json:"assignedFarmers"`
}

// Overview bundles the dashboard reports with headline totals
type Overview struct {
	TotalRevenue     float64          `json:"totalRevenue"`
	TotalPayments    int64            `json:"totalPayments"`
	TotalCrops       int64            `json:"totalCrops"`
	TotalFarmers     int64            `json:"totalFarmers"`
	TotalAgents      int64            `json:"totalAgents"`
	CropsByStatus    map[string]int64 `json:"cropsByStatus"`
	AnnualRevenue    []YearRevenue    `json:"annualRevenue"`
	CropDistribution []CropCount      `json:"cropDistribution"`
	RegionRevenue    []RegionRevenue  `json:"regionRevenue"`
}

const regionBucket = "COALESCE(NULLIF(users.region, ''), 'Unknown')"

// AnnualRevenue sums payment totals per calendar year, oldest first
func (s *AnalyticsService) AnnualRevenue(ctx context.Context) ([]YearRevenue, error) {
	rows := []YearRevenue{}
	err := s.db.WithContext(ctx).Table("payments").
		Select("year, COALESCE(SUM(total), 0) AS revenue").
		Group("year").
		Order("year ASC").
		Scan(&rows).Error
	return rows, err
}

// CropDistribution counts crops per name, most common first
func (s *AnalyticsService) CropDistribution(ctx context.Context) ([]CropCount, error) {
	rows := []CropCount{}
	err := s.db.WithContext(ctx).Table("crops").
		Select("name, COUNT(*) AS crop_count").
		Group("name").
		Order("crop_count DESC, name ASC").
		Scan(&rows).Error
	return rows, err
}

// RegionRevenue sums payment totals per farmer region, highest first.
// Payments whose crop or farmer region cannot be resolved land in "Unknown".
func (s *AnalyticsService) RegionRevenue(ctx context.Context) ([]RegionRevenue, error) {
	rows := []RegionRevenue{}
	err := s.db.WithContext(ctx).Table("payments").
		Select(regionBucket + " AS region, COALESCE(SUM(payments.total), 0) AS revenue").
		Joins("LEFT JOIN crops ON crops.id = payments.crop_id").
		Joins("LEFT JOIN users ON users.id = crops.farmer_id").
		Group(regionBucket).
		Order("revenue DESC, region ASC").
		Scan(&rows).Error
	return rows, err
}

// AgentsWithFarmerCounts lists agents, optionally of one region, with distinct farmer counts
func (s *AnalyticsService) AgentsWithFarmerCounts(ctx context.Context, region string) ([]AgentSummary, error) {
	rows := []AgentSummary{}

	query := s.db.WithContext(ctx).Table("users").
		Select("users.id, users.name, users.email, users.phone, users.region, COUNT(DISTINCT crops.farmer_id) AS assigned_farmers").
		Joins("LEFT JOIN crops ON crops.agent_id = users.id").
		Where("users.role = ?", string(domain.RoleAgent))

	if region = strings.TrimSpace(region); region != "" {
		query = query.Where(repositories.ExactMatch(s.db, "users.region"), region)
	}

	err := query.
		Group("users.id, users.name, users.email, users.phone, users.region").
		Order("users.id ASC").
		Scan(&rows).Error
	return rows, err
}

// Overview runs the dashboard queries concurrently
func (s *AnalyticsService) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{CropsByStatus: map[string]int64{}}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.AnnualRevenue, err = s.AnnualRevenue(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.CropDistribution, err = s.CropDistribution(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.RegionRevenue, err = s.RegionRevenue(ctx)
		return err
	})
	g.Go(func() error {
		var totals struct {
			Revenue float64
			Count   int64
		}
		err := s.db.WithContext(ctx).Table("payments").
			Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").
			Scan(&totals).Error
		out.TotalRevenue, out.TotalPayments = totals.Revenue, totals.Count
		return err
	})
	g.Go(func() error {
		var roles []struct {
			Role  string
			Total int64
		}
		err := s.db.WithContext(ctx).Table("users").
			Select("role, COUNT(*) AS total").
			Group("role").
			Scan(&roles).Error
		for _, r := range roles {
			switch domain.Role(r.Role) {
			case domain.RoleFarmer:
				out.TotalFarmers = r.Total
			case domain.RoleAgent:
				out.TotalAgents = r.Total
			}
		}
		return err
	})

	// written after Wait so the map is never shared between goroutines
	var statuses []struct {
		Status string
		Total  int64
	}
	g.Go(func() error {
		return s.db.WithContext(ctx).Table("crops").
			Select("status, COUNT(*) AS total").
			Group("status").
			Scan(&statuses).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, st := range statuses {
		out.CropsByStatus[st.Status] = st.Total
		out.TotalCrops += st.Total
	}
	return out, nil
}

// ExportXLSX writes every report into one workbook, one sheet each
func (s *AnalyticsService) ExportXLSX(ctx context.Context) ([]byte, error) {
	overview, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	agents, err := s.AgentsWithFarmerCounts(ctx, "")
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{"Annual Revenue", []interface{}{"Year", "Revenue"}, nil},
		{"Crop Distribution", []interface{}{"Crop", "Registrations"}, nil},
		{"Region Revenue", []interface{}{"Region", "Revenue"}, nil},
		{"Agents", []interface{}{"ID", "Name", "Email", "Phone", "Region", "Assigned Farmers"}, nil},
	}
	for _, r := range overview.AnnualRevenue {
		sheets[0].rows = append(sheets[0].rows, []interface{}{r.Year, r.Revenue})
	}
	for _, r := range overview.CropDistribution {
		sheets[1].rows = append(sheets[1].rows, []interface{}{r.Name, r.Count})
	}
	for _, r := range overview.RegionRevenue {
		sheets[2].rows = append(sheets[2].rows, []interface{}{r.Region, r.Revenue})
	}
	for _, a := range agents {
		sheets[3].rows = append(sheets[3].rows, []interface{}{a.ID, a.Name, a.Email, a.Phone, a.Region, a.AssignedFarmers})
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, err
		}

		if err := f.SetSheetRow(sheet.name, "A1", &sheet.header); err != nil {
			return nil, err
		}
		for j, row := range sheet.rows {
			cell := fmt.Sprintf("A%d", j+2)
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	s.log.Info("analytics exported", zap.Int("agents", len(agents)))
	return buf.Bytes(), nil
}
