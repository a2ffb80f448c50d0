package request

import (
	"slices"

	"onboard/internal/check/models"
)

// taskOrder is positional: downstream systems display tasks in this order.
var taskOrder = []models.TaskType{
	models.TaskIdentity,
	models.TaskDocument,
	models.TaskAddress,
	models.TaskScreening,
	models.TaskSourceOfFunds,
	models.TaskBankStatements,
	models.TaskGiftDeclaration,
	models.TaskProofOfOwnership,
	models.TaskCompanyReport,
	models.TaskOfficers,
}

// optionTasks maps report sub-options to their task descriptors.
var optionTasks = map[models.OptionKey]models.TaskType{
	models.OptionProofOfAddress:   models.TaskAddress,
	models.OptionSourceOfFunds:    models.TaskSourceOfFunds,
	models.OptionBankStatements:   models.TaskBankStatements,
	models.OptionGiftDeclaration:  models.TaskGiftDeclaration,
	models.OptionProofOfOwnership: models.TaskProofOfOwnership,
	models.OptionScreening:        models.TaskScreening,
	models.OptionCompanyReport:    models.TaskCompanyReport,
	models.OptionOfficers:         models.TaskOfficers,
}

func sortTasks(tasks []models.Task) {
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		return slices.Index(taskOrder, a.Type) - slices.Index(taskOrder, b.Type)
	})
}
