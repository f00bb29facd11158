package idgen

import (
	"math/rand/v2"
	"time"
)

// GenerateTimeRandomID สร้าง int64 id จาก timestamp (มิลลิวินาที) ต่อด้วยเลขสุ่ม 20 บิต
// เพื่อให้ id เรียงตามเวลาโดยประมาณ และไม่ชนกันเมื่อสร้างในมิลลิวินาทีเดียวกัน
func GenerateTimeRandomID() int64 {
	ms := time.Now().UnixMilli()
	return (ms << 20) | rand.Int64N(1<<20)
}
