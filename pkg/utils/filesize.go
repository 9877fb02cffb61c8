package utils

import (
	"fmt"
	"math"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FileSizeFormatter 字节数 → 可读字符串，保留 decimals 位小数
func FileSizeFormatter(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "0 B"
	}
	if decimals < 0 {
		decimals = 0
	}
	idx := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if idx >= len(sizeUnits) {
		idx = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(idx))
	return fmt.Sprintf("%.*f %s", decimals, v, sizeUnits[idx])
}
