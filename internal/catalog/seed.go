package catalog

import "github.com/shopspring/decimal"

// Seed returns the demo product list.
func Seed() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Premium Wireless Headphones",
			Price:       decimal.RequireFromString("199.99"),
			Description: "Premium noise-cancelling wireless headphones with 30-hour battery life and crystal clear sound quality.",
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?q=80&w=500",
			Category:    "electronics",
		},
		{
			ID:          "2",
			Name:        "Smart Watch Series 5",
			Price:       decimal.RequireFromString("299.99"),
			Description: "Latest generation smartwatch with heart rate monitoring, sleep tracking, and a beautiful OLED display.",
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?q=80&w=500",
			Category:    "electronics",
		},
		{
			ID:          "3",
			Name:        "Professional Camera",
			Price:       decimal.RequireFromString("1299.99"),
			Description: "Professional-grade camera with 4K video recording, 30x optical zoom, and advanced image stabilization.",
			Image:       "https://images.unsplash.com/photo-1526170375885-4d8ecf77b99f?q=80&w=500",
			Category:    "electronics",
		},
		{
			ID:          "4",
			Name:        "Designer Backpack",
			Price:       decimal.RequireFromString("89.99"),
			Description: "Stylish, water-resistant backpack with multiple compartments and laptop sleeve. Perfect for work or travel.",
			Image:       "https://images.unsplash.com/photo-1491637639811-60e2756cc1c7?q=80&w=500",
			Category:    "fashion",
		},
		{
			ID:          "5",
			Name:        "Running Shoes",
			Price:       decimal.RequireFromString("129.99"),
			Description: "Lightweight, breathable running shoes with responsive cushioning for maximum comfort and performance.",
			Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?q=80&w=500",
			Category:    "fashion",
		},
		{
			ID:          "6",
			Name:        "Smart Home Speaker",
			Price:       decimal.RequireFromString("149.99"),
			Description: "Smart speaker with voice assistant, premium sound quality, and home automation capabilities.",
			Image:       "https://images.unsplash.com/photo-1589003077984-894e133dabab?q=80&w=500",
			Category:    "electronics",
		},
		{
			ID:          "7",
			Name:        "Leather Wallet",
			Price:       decimal.RequireFromString("49.99"),
			Description: "Genuine leather wallet with RFID protection, multiple card slots, and sleek minimalist design.",
			Image:       "https://images.unsplash.com/photo-1601592996763-f05c9ce5add6?q=80&w=500",
			Category:    "fashion",
		},
		{
			ID:          "8",
			Name:        "Stainless Steel Watch",
			Price:       decimal.RequireFromString("179.99"),
			Description: "Classic stainless steel watch with sapphire crystal, Japanese movement, and 100m water resistance.",
			Image:       "https://images.unsplash.com/photo-1542496658-e33a6d0d50f6?q=80&w=500",
			Category:    "fashion",
		},
		{
			ID:          "9",
			Name:        "Wireless Earbuds",
			Price:       decimal.RequireFromString("129.99"),
			Description: "Truly wireless earbuds with active noise cancellation, transparency mode, and 24-hour battery life.",
			Image:       "https://images.unsplash.com/photo-1606220588913-b3aacb4d2f37?q=80&w=500",
			Category:    "electronics",
		},
		{
			ID:          "10",
			Name:        "Portable Power Bank",
			Price:       decimal.RequireFromString("59.99"),
			Description: "20,000mAh power bank with fast charging, dual USB ports, and compact design for on-the-go charging.",
			Image:       "https://images.unsplash.com/photo-1620288627223-53302f4e8c74?q=80&w=500",
			Category:    "electronics",
		},
		{
			ID:          "11",
			Name:        "Designer Sunglasses",
			Price:       decimal.RequireFromString("159.99"),
			Description: "Polarized designer sunglasses with UV protection, durable frame, and premium case included.",
			Image:       "https://images.unsplash.com/photo-1572635196237-14b3f281503f?q=80&w=500",
			Category:    "fashion",
		},
		{
			ID:          "12",
			Name:        "Bluetooth Speaker",
			Price:       decimal.RequireFromString("79.99"),
			Description: "Waterproof Bluetooth speaker with 360° sound, 12-hour battery life, and rugged design for outdoor use.",
			Image:       "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?q=80&w=500",
			Category:    "electronics",
		},
	}
}
