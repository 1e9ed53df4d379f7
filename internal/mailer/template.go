package mailer

import (
	"os"
	"path/filepath"
	"strings"
)

// TemplateSource 按名称提供邮件模板文本，缺失时返回空串而不报错
type TemplateSource interface {
	Load(name string) string
}

// DirTemplateSource 从目录读取模板文件
type DirTemplateSource struct {
	Dir string
}

func NewDirTemplateSource(dir string) *DirTemplateSource {
	return &DirTemplateSource{Dir: dir}
}

func (s *DirTemplateSource) Load(name string) string {
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}

// RenderTemplate 以 {{ key }} 占位符做简单替换。
// 刻意不引入完整模板引擎，未知占位符原样保留。
func RenderTemplate(content string, context map[string]string) string {
	result := content
	for key, value := range context {
		result = strings.ReplaceAll(result, "{{ "+key+" }}", value)
	}
	return result
}
