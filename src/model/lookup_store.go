package model

import (
	"fmt"

	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/models"
)

// Seed values for the lookup tables. SeedLookups upserts them on startup, so
// renames propagate while rows added through the API survive.

var seedProjects = []models.Project{
	{ID: "-", Name: "—", Description: "Bez projektu"},
	{ID: "4cfuture", Name: "4CFuture", Description: "Projekt 4C Future"},
	{ID: "polcom", Name: "POLCOM", Description: "Projekt POLCOM"},
	{ID: "gap", Name: "GAP", Description: "Projekt GAP"},
	{ID: "larpic", Name: "LARPIC", Description: "Projekt LARPIC"},
	{ID: "cc", Name: "CC", Description: "Projekt CC"},
	{ID: "digitmi", Name: "Digitmi", Description: "Projekt Digitmi"},
	{ID: "omf", Name: "OMF", Description: "Projekt OMF"},
	{ID: "egr", Name: "EGR", Description: "Projekt EGR"},
	{ID: "digisecure", Name: "DIGISECURE", Description: "Projekt DIGISECURE"},
}

var seedProducts = []models.Product{
	{ID: "silny-lidr", Name: "Silný lídr", Category: models.CategorySkoly, Description: "Program Silný lídr pro školy"},
	{ID: "na-jedne-lodi", Name: "Na jedné lodi", Category: models.CategorySkoly, Description: "Program Na jedné lodi pro školy"},
	{ID: "talentova-akademie", Name: "Talentová akademie", Category: models.CategoryFirmy, Description: "Talentová akademie pro firmy"},
	{ID: "matrix", Name: "Matrix", Category: models.CategoryFirmy, Description: "Program Matrix pro firmy"},
}

var seedSubgroups = []models.ProductSubgroup{
	{ID: "silny-lidr-analyza", ProductID: "silny-lidr", Name: "Analýza", Description: "Analytická fáze"},
	{ID: "silny-lidr-evaluace", ProductID: "silny-lidr", Name: "Evaluace", Description: "Evaluační fáze"},
	{ID: "silny-lidr-followup", ProductID: "silny-lidr", Name: "FollowUp", Description: "Následná péče"},
	{ID: "silny-lidr-feedback", ProductID: "silny-lidr", Name: "Feedback", Description: "Zpětná vazba"},
	{ID: "silny-lidr-metodika", ProductID: "silny-lidr", Name: "Metodika", Description: "Metodická podpora"},
	{ID: "na-jedne-lodi-analyza", ProductID: "na-jedne-lodi", Name: "Analýza", Description: "Analytická fáze"},
	{ID: "na-jedne-lodi-najl", ProductID: "na-jedne-lodi", Name: "Na jedné lodi", Description: "Hlavní program"},
	{ID: "na-jedne-lodi-evaluace", ProductID: "na-jedne-lodi", Name: "Evaluace", Description: "Evaluační fáze"},
	{ID: "na-jedne-lodi-followup", ProductID: "na-jedne-lodi", Name: "FollowUp", Description: "Následná péče"},
	{ID: "na-jedne-lodi-feedback", ProductID: "na-jedne-lodi", Name: "Feedback", Description: "Zpětná vazba"},
	{ID: "na-jedne-lodi-metodika", ProductID: "na-jedne-lodi", Name: "Metodika", Description: "Metodická podpora"},
	{ID: "ta-analyza", ProductID: "talentova-akademie", Name: "Analýza", Description: "Analytická fáze"},
	{ID: "ta-evaluace", ProductID: "talentova-akademie", Name: "Evaluace", Description: "Evaluační fáze"},
	{ID: "ta-followup", ProductID: "talentova-akademie", Name: "FollowUp", Description: "Následná péče"},
	{ID: "matrix-analyza", ProductID: "matrix", Name: "Analýza", Description: "Analytická fáze"},
	{ID: "matrix-evaluace", ProductID: "matrix", Name: "Evaluace", Description: "Evaluační fáze"},
	{ID: "matrix-followup", ProductID: "matrix", Name: "FollowUp", Description: "Následná péče"},
}

var seedCostDetails = []models.CostDetail{
	{ID: "vydaje-fixni", DruhType: "vydaje", DruhValue: "Fixní", Detail: "Fixní náklady"},
	{ID: "vydaje-variabilni", DruhType: "vydaje", DruhValue: "Variabilní", Detail: "Variabilní náklady"},
	{ID: "vydaje-mzdy", DruhType: "vydaje", DruhValue: "Mzdy", Detail: "Mzdové náklady"},
	{ID: "vydaje-mimoradne", DruhType: "vydaje", DruhValue: "Mimořádné", Detail: "Mimořádné náklady"},
	{ID: "vydaje-dluhy", DruhType: "vydaje", DruhValue: "Dluhy", Detail: "Splátky dluhů"},
	{ID: "vydaje-prevod", DruhType: "vydaje", DruhValue: "Převod", Detail: "Převody mezi účty"},
	{ID: "prijmy-projekt-eu", DruhType: "prijmy", DruhValue: "Projekt EU", Detail: "Příjmy z EU projektů"},
	{ID: "prijmy-grant-cz", DruhType: "prijmy", DruhValue: "Grant CZ", Detail: "Příjmy z českých grantů"},
	{ID: "prijmy-produkt", DruhType: "prijmy", DruhValue: "Produkt", Detail: "Příjmy z produktů"},
	{ID: "prijmy-konference", DruhType: "prijmy", DruhValue: "Konference", Detail: "Příjmy z konferencí"},
}

// SeedLookups populates projects, products, subgroups and cost details.
// Idempotent; called once at startup after migrations.
func SeedLookups(db DBTX) error {
	for _, p := range seedProjects {
		_, err := db.Exec(`INSERT INTO projects (id, name, description, is_active)
			VALUES (?, ?, ?, 1)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description`,
			p.ID, p.Name, p.Description)
		if err != nil {
			return fmt.Errorf("seeding project %s: %w", p.ID, err)
		}
	}
	for _, p := range seedProducts {
		_, err := db.Exec(`INSERT INTO products (id, name, category, description, is_active)
			VALUES (?, ?, ?, ?, 1)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, category = excluded.category, description = excluded.description`,
			p.ID, p.Name, string(p.Category), p.Description)
		if err != nil {
			return fmt.Errorf("seeding product %s: %w", p.ID, err)
		}
	}
	for _, s := range seedSubgroups {
		_, err := db.Exec(`INSERT INTO product_subgroups (id, product_id, name, description, is_active)
			VALUES (?, ?, ?, ?, 1)
			ON CONFLICT(id) DO UPDATE SET product_id = excluded.product_id, name = excluded.name, description = excluded.description`,
			s.ID, s.ProductID, s.Name, s.Description)
		if err != nil {
			return fmt.Errorf("seeding subgroup %s: %w", s.ID, err)
		}
	}
	for _, cd := range seedCostDetails {
		_, err := db.Exec(`INSERT INTO cost_details (id, druh_type, druh_value, detail, is_active)
			VALUES (?, ?, ?, ?, 1)
			ON CONFLICT(id) DO UPDATE SET druh_type = excluded.druh_type, druh_value = excluded.druh_value, detail = excluded.detail`,
			cd.ID, cd.DruhType, cd.DruhValue, cd.Detail)
		if err != nil {
			return fmt.Errorf("seeding cost detail %s: %w", cd.ID, err)
		}
	}
	logger.L.Info("Lookup tables seeded",
		"projects", len(seedProjects),
		"products", len(seedProducts),
		"subgroups", len(seedSubgroups),
		"costDetails", len(seedCostDetails),
	)
	return nil
}

func ListProjects(db DBTX) ([]models.Project, error) {
	rows, err := db.Query(`SELECT id, name, description, is_active FROM projects WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsActive); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func ListProducts(db DBTX) ([]models.Product, error) {
	rows, err := db.Query(`SELECT id, name, category, description, is_active FROM products WHERE is_active = 1 ORDER BY category, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var p models.Product
		var category string
		if err := rows.Scan(&p.ID, &p.Name, &category, &p.Description, &p.IsActive); err != nil {
			return nil, err
		}
		p.Category = models.ProductCategory(category)
		out = append(out, p)
	}
	return out, rows.Err()
}

func ListProductSubgroups(db DBTX, productID string) ([]models.ProductSubgroup, error) {
	query := `SELECT id, product_id, name, description, is_active FROM product_subgroups WHERE is_active = 1`
	var args []interface{}
	if productID != "" {
		query += ` AND product_id = ?`
		args = append(args, productID)
	}
	query += ` ORDER BY product_id, id`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProductSubgroup
	for rows.Next() {
		var s models.ProductSubgroup
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Name, &s.Description, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func ListCostDetails(db DBTX, druhType string) ([]models.CostDetail, error) {
	query := `SELECT id, druh_type, druh_value, detail, is_active FROM cost_details WHERE is_active = 1`
	var args []interface{}
	if druhType != "" {
		query += ` AND druh_type = ?`
		args = append(args, druhType)
	}
	query += ` ORDER BY druh_type, id`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CostDetail
	for rows.Next() {
		var cd models.CostDetail
		if err := rows.Scan(&cd.ID, &cd.DruhType, &cd.DruhValue, &cd.Detail, &cd.IsActive); err != nil {
			return nil, err
		}
		out = append(out, cd)
	}
	return out, rows.Err()
}
