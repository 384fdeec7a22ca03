package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatMaybeString(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func printUser(u domain.User) {
	printKV([][2]string{
		{"id", strconv.FormatUint(uint64(u.ID), 10)},
		{"email", u.Email},
		{"full_name", u.FullName},
		{"location", formatMaybeString(u.Location)},
		{"reputation", strconv.Itoa(u.ReputationScore)},
		{"joined", formatTime(u.CreatedAt)},
	})
}

func printLandmarks(items []domain.Landmark) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Name,
			item.City,
			item.Category,
			formatFloat(item.Latitude) + "," + formatFloat(item.Longitude),
		})
	}
	printTable([]string{"ID", "NAME", "CITY", "CATEGORY", "LOCATION"}, rows)
}

func printNearby(items []domain.NearbyLandmark) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Name,
			item.Category,
			formatFloat(item.Distance) + " km",
		})
	}
	printTable([]string{"ID", "NAME", "CATEGORY", "DISTANCE"}, rows)
}

func printLandmark(l domain.Landmark) {
	printKV([][2]string{
		{"id", strconv.FormatUint(uint64(l.ID), 10)},
		{"name", l.Name},
		{"city", l.City + ", " + l.Country},
		{"category", l.Category},
		{"address", formatMaybeString(l.Address)},
		{"coordinates", formatFloat(l.Latitude) + "," + formatFloat(l.Longitude)},
		{"description", formatMaybeString(l.Description)},
	})
}

func printPopularCities(items []domain.PopularCity) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.CityName,
			item.Country,
			strconv.Itoa(item.TotalLandmarks),
			formatFloat(item.AverageRating),
		})
	}
	printTable([]string{"CITY", "COUNTRY", "LANDMARKS", "RATING"}, rows)
}

func printCityProfile(p domain.CityProfileView) {
	categories := make([]string, 0, len(p.PopularCategories))
	for _, c := range p.PopularCategories {
		categories = append(categories, fmt.Sprintf("%s (%d)", c.Category, c.Count))
	}
	printKV([][2]string{
		{"city", p.CityName},
		{"country", p.Country},
		{"landmarks", strconv.Itoa(p.TotalLandmarks)},
		{"reviews", strconv.Itoa(p.TotalReviews)},
		{"discussions", strconv.Itoa(p.TotalDiscussions)},
		{"average_rating", formatFloat(p.AverageRating)},
		{"popular_categories", strings.Join(categories, ", ")},
		{"updated", formatTime(p.UpdatedAt)},
	})
}

func printNotifications(list application.NotificationList) {
	rows := make([][]string, 0, len(list.Items))
	for _, item := range list.Items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.NotificationType,
			item.Title,
			strconv.FormatBool(item.IsRead),
			formatTime(item.CreatedAt),
		})
	}
	printTable([]string{"ID", "TYPE", "TITLE", "READ", "CREATED_AT"}, rows)
	fmt.Printf("%d unread of %d\n", list.UnreadCount, list.Total)
}
