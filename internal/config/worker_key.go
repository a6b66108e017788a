package config

type WorkerKeyStruct struct {
	ResultNotifyQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ResultNotifyQueue: "result_notify_queue",
}
