package excel

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeColumnName 规范化列名：去除首尾空白与换行，统一为 NFC
// macOS 上保存的文件常以 NFD 存储韩文，不统一会导致列名匹配失败
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\n", "")
	return norm.NFC.String(name)
}

// buildHeader 根据首行生成 width 个列名
// 空列名记为 "Unnamed: <i>"，重复列名依次追加 ".1" ".2"
func buildHeader(first []string, width int) []string {
	cols := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(first) {
			name = NormalizeColumnName(first[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		if used[name] {
			base := name
			for {
				suffix[base]++
				candidate := fmt.Sprintf("%s.%d", base, suffix[base])
				if !used[candidate] {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		cols[i] = name
	}
	return cols
}
