package booking

import (
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
