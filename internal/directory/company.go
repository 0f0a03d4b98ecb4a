package directory

import (
	"tradeportal-backend/internal/models"

	"gorm.io/gorm"
)

// The supplier side of the portal is a single house company; buyers bring
// their own.
const (
	SupplierCompanyName    = "宝鸡蕴杰金属制品有限公司"
	SupplierCompanyCountry = "中国"
	supplierCompanyAddress = "陕西省宝鸡市"
)

// GetOrCreateCompany looks a company up by its unique name, creating it with
// the given defaults when missing. Companies are never deleted by the app.
func GetOrCreateCompany(tx *gorm.DB, name, country string) (*models.Company, error) {
	var company models.Company
	err := tx.Where(models.Company{Name: name}).
		Attrs(models.Company{Country: country, IsActive: true}).
		FirstOrCreate(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// SupplierCompany returns the house supplier company, creating it on first use.
func SupplierCompany(tx *gorm.DB) (*models.Company, error) {
	var company models.Company
	err := tx.Where(models.Company{Name: SupplierCompanyName}).
		Attrs(models.Company{
			Country:  SupplierCompanyCountry,
			Address:  supplierCompanyAddress,
			IsActive: true,
		}).
		FirstOrCreate(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}
