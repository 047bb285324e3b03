package service

const (
	defaultBatchWorkerCount = 4
)
