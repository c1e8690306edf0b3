package equipment

import "errors"

var (
	// ErrEquipmentNotFound возвращается, когда техника не найдена
	ErrEquipmentNotFound = errors.New("equipment.repository: equipment not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("equipment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("equipment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("equipment.repository: failed to scan row")
)
