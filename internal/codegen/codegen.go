package codegen

import (
	"crypto/rand"
	"fmt"
)

// CodeGenerator 產生預訂代碼的協作者
// 產生器本身不保證唯一，由呼叫方對既有代碼做碰撞檢查後重抽
type CodeGenerator interface {
	Generate() (string, error)
}

// 排除 0/O、1/I 這類易混淆字元，代碼要能唸給客服聽
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codePrefix = "RSV"
	codeLength = 8
)

type RandomCodeGenerator struct{}

func NewRandomCodeGenerator() CodeGenerator {
	return &RandomCodeGenerator{}
}

// Generate 產生 "RSV-XXXXXXXX" 格式的代碼
func (g *RandomCodeGenerator) Generate() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return fmt.Sprintf("%s-%s", codePrefix, string(buf)), nil
}
