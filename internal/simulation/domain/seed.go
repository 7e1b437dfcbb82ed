// Package domain 行情模拟的领域模型：种子目录与随机漫步价格生成
package domain

import "github.com/shopspring/decimal"

// SeedStock 种子行情条目，首轮模拟前写入报价目录
type SeedStock struct {
	Symbol      string
	CompanyName string
	Price       decimal.Decimal
}

// DefaultCatalog 内置种子目录，配置未提供种子时使用
func DefaultCatalog() []SeedStock {
	return []SeedStock{
		{Symbol: "AAPL", CompanyName: "Apple Inc.", Price: decimal.RequireFromString("150.00")},
		{Symbol: "GOOGL", CompanyName: "Alphabet Inc.", Price: decimal.RequireFromString("2800.00")},
		{Symbol: "MSFT", CompanyName: "Microsoft Corporation", Price: decimal.RequireFromString("330.00")},
		{Symbol: "AMZN", CompanyName: "Amazon.com Inc.", Price: decimal.RequireFromString("3200.00")},
		{Symbol: "TSLA", CompanyName: "Tesla Inc.", Price: decimal.RequireFromString("800.00")},
		{Symbol: "META", CompanyName: "Meta Platforms Inc.", Price: decimal.RequireFromString("320.00")},
		{Symbol: "NVDA", CompanyName: "NVIDIA Corporation", Price: decimal.RequireFromString("450.00")},
		{Symbol: "NFLX", CompanyName: "Netflix Inc.", Price: decimal.RequireFromString("400.00")},
		{Symbol: "AMD", CompanyName: "Advanced Micro Devices", Price: decimal.RequireFromString("110.00")},
		{Symbol: "ORCL", CompanyName: "Oracle Corporation", Price: decimal.RequireFromString("85.00")},
	}
}
