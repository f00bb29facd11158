package logger

import (
	"go.elastic.co/ecszap"
	"go.uber.org/zap"
)

// Log เป็น logger กลางของทั้งระบบ ก่อนเรียก Init จะเป็น no-op
var Log = zap.NewNop()

type closeLog func() error

func Init() (closeLog, error) {
	config := zap.NewDevelopmentConfig()
	// ใช้ zap ร่วมกับ ecszap เพื่อให้รองรับการส่ง log ไปยัง Elastic Stack ได้ในอนาคต
	config.EncoderConfig = ecszap.ECSCompatibleEncoderConfig(config.EncoderConfig)

	log, err := config.Build(ecszap.WrapCoreOption())
	if err != nil {
		return nil, err
	}
	Log = log

	return func() error {
		return Log.Sync()
	}, nil
}
