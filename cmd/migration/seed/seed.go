package seed

import (
	"upkeep/config"
	"upkeep/internal/logger"
	. "upkeep/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// Seed loads a small demo plant: two technicians, a four-level location
// tree, a parts inventory with one part already below minimum, and one
// pending activity ready to be worked.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	technician := &User{
		FirstName:  "João",
		LastName:   "Silva",
		Email:      stringPtr("joao@empresa.com"),
		EmployeeID: "TEC001",
		Shift:      "morning",
		IsActive:   true,
	}
	supervisor := &User{
		FirstName:    "Maria",
		LastName:     "Santos",
		Email:        stringPtr("maria@empresa.com"),
		EmployeeID:   "TEC002",
		Shift:        "afternoon",
		IsSupervisor: true,
		IsActive:     true,
	}

	for _, user := range []*User{technician, supervisor} {
		if err := db.Create(user).Error; err != nil {
			return log.Err("failed to seed user", err, "employeeID", user.EmployeeID)
		}
	}

	categories := map[string]*PartCategory{
		"Rolamentos": {Name: "Rolamentos", Description: "Rolamentos diversos para equipamentos"},
		"Correias":   {Name: "Correias", Description: "Correias e polias"},
		"Filtros":    {Name: "Filtros", Description: "Filtros de óleo, ar e combustível"},
	}
	for _, category := range categories {
		if err := db.Create(category).Error; err != nil {
			return log.Err("failed to seed part category", err, "name", category.Name)
		}
	}

	parts := []*Part{
		{
			Code:         "ROL001",
			Name:         "Rolamento 6205",
			CategoryID:   categories["Rolamentos"].ID,
			Description:  "Rolamento de esfera 6205",
			MinimumStock: decimal.NewFromInt(10),
			CurrentStock: decimal.NewFromInt(25),
			CostPrice:    decimalPtr(decimal.NewFromFloat(45.50)),
			Supplier:     stringPtr("Rolamentos Brasil"),
		},
		{
			Code:         "COR001",
			Name:         "Correia V A42",
			CategoryID:   categories["Correias"].ID,
			Description:  "Correia em V perfil A42",
			MinimumStock: decimal.NewFromInt(5),
			CurrentStock: decimal.NewFromInt(3), // already below minimum
			CostPrice:    decimalPtr(decimal.NewFromFloat(28.90)),
			Supplier:     stringPtr("Correias SP"),
		},
		{
			Code:         "FIL001",
			Name:         "Filtro de Óleo W67",
			CategoryID:   categories["Filtros"].ID,
			Description:  "Filtro de óleo para motores",
			MinimumStock: decimal.NewFromInt(20),
			CurrentStock: decimal.NewFromInt(50),
			CostPrice:    decimalPtr(decimal.NewFromFloat(15.30)),
			Supplier:     stringPtr("Filtros ABC"),
		},
	}
	for _, part := range parts {
		if err := db.Create(part).Error; err != nil {
			return log.Err("failed to seed part", err, "code", part.Code)
		}
	}

	plant := &Location{
		Name:        "Fábrica Principal",
		Code:        "FAB001",
		Type:        LocationTypePlant,
		Description: "Fábrica principal da empresa",
		IsActive:    true,
	}
	if err := db.Create(plant).Error; err != nil {
		return log.Err("failed to seed plant", err)
	}

	sector := &Location{
		Name:        "Setor de Produção",
		Code:        "PROD001",
		Type:        LocationTypeSector,
		ParentID:    &plant.ID,
		Description: "Setor de produção principal",
		IsActive:    true,
	}
	if err := db.Create(sector).Error; err != nil {
		return log.Err("failed to seed sector", err)
	}

	line := &Location{
		Name:        "Linha de Produção 1",
		Code:        "LIN001",
		Type:        LocationTypeLine,
		ParentID:    &sector.ID,
		Description: "Primeira linha de produção",
		IsActive:    true,
	}
	if err := db.Create(line).Error; err != nil {
		return log.Err("failed to seed line", err)
	}

	equipment := &Location{
		Name:        "Compressor Atlas 01",
		Code:        "COMP001",
		Type:        LocationTypeEquipment,
		ParentID:    &line.ID,
		Description: "Compressor principal da linha 1",
		IsActive:    true,
	}
	if err := db.Create(equipment).Error; err != nil {
		return log.Err("failed to seed equipment", err)
	}

	var preventive, corrective ActivityType
	if err := db.First(&preventive, "name = ?", "Manutenção Preventiva").Error; err != nil {
		return log.Err("preventive activity type missing", err)
	}
	if err := db.First(&corrective, "name = ?", "Manutenção Corretiva").Error; err != nil {
		return log.Err("corrective activity type missing", err)
	}

	questions := []*StandardQuestion{
		{
			ActivityTypeID: preventive.ID,
			Question:       "O equipamento estava funcionando normalmente antes da manutenção?",
			Type:           QuestionTypeYesNo,
			IsRequired:     true,
			Order:          1,
		},
		{
			ActivityTypeID: preventive.ID,
			Question:       "Qual a temperatura do motor em °C?",
			Type:           QuestionTypeNumber,
			IsRequired:     true,
			Order:          2,
		},
		{
			ActivityTypeID: corrective.ID,
			Question:       "Qual foi o problema identificado?",
			Type:           QuestionTypeText,
			IsRequired:     true,
			Order:          1,
		},
	}
	for _, question := range questions {
		if err := db.Create(question).Error; err != nil {
			return log.Err("failed to seed question", err)
		}
	}

	activity := &MaintenanceActivity{
		TechnicianID:   technician.ID,
		ActivityTypeID: preventive.ID,
		LocationID:     equipment.ID,
		Title:          "Manutenção Preventiva - Compressor Atlas 01",
		Description:    "Manutenção preventiva mensal do compressor",
		Status:         ActivityStatusPending,
		Priority:       ActivityPriorityMedium,
	}
	if err := db.Create(activity).Error; err != nil {
		return log.Err("failed to seed activity", err)
	}

	log.Info("Seed complete",
		"users", 2,
		"parts", len(parts),
		"locations", 4,
		"questions", len(questions),
	)
	return nil
}
