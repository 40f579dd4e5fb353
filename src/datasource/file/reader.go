// reader.go
package file

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// ReadSampleCSV 读取样例ESG数据文件
// 显式指定列类型，避免年份被推断为浮点
func ReadSampleCSV(filePath string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("打开样例数据文件失败: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.WithTypes(map[string]series.Type{
			"country":        series.String,
			"country_code":   series.String,
			"year":           series.Int,
			"co2_per_capita": series.Float,
			"gdp_per_capita": series.Float,
		}),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("解析样例数据失败: %w", df.Err)
	}

	return df, nil
}

// ReadPortfolioXLSX 读取国家组合工作簿的第一个工作表
// 第一行为标题行，其余行为数据
func ReadPortfolioXLSX(filePath string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("xlsx open file false: %w", err)
	}

	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("excel文件中没有工作表")
	}

	return convertSheetToDataFrame(xlFile.Sheets[0]), nil
}

// ReadPortfolioBytes 从附件字节内容读取国家组合
func ReadPortfolioBytes(content []byte) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenBinary(content)
	if err != nil {
		return dataframe.New(), fmt.Errorf("解析附件工作簿失败: %w", err)
	}

	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("excel文件中没有工作表")
	}

	return convertSheetToDataFrame(xlFile.Sheets[0]), nil
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet) dataframe.DataFrame {
	if len(sheet.Rows) < 2 {
		return dataframe.New()
	}

	// 第一行是标题行
	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}

	for _, row := range sheet.Rows[1:] {
		for i, cell := range row.Cells {
			if i < len(headers) {
				columns[i] = append(columns[i], cell.Value)
			}
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	return dataframe.New(seriesList...)
}

// PortfolioCodesFromFile 读取组合工作簿并提取国家编码清单
func PortfolioCodesFromFile(filePath string) ([]string, error) {
	df, err := ReadPortfolioXLSX(filePath)
	if err != nil {
		return nil, err
	}
	return PortfolioCodes(df)
}

// PortfolioCodes 提取组合工作簿中的国家编码列
func PortfolioCodes(df dataframe.DataFrame) ([]string, error) {
	colName := ""
	for _, n := range df.Names() {
		if n == "country_code" || n == "code" {
			colName = n
			break
		}
	}
	if colName == "" {
		return nil, fmt.Errorf("组合工作簿缺少 country_code 列")
	}

	var codes []string
	for _, v := range df.Col(colName).Records() {
		if v != "" {
			codes = append(codes, v)
		}
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("组合工作簿没有有效的国家编码")
	}
	return codes, nil
}
