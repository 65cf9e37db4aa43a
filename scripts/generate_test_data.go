package main

import (
	"fmt"
	"log"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/config"
	"github.com/veNNNx/time-reporting-tool/internal/db"
	"github.com/veNNNx/time-reporting-tool/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器：工人、标签、设备和本月的工时记录。
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	if err := db.EnsureAdmin(cfg.AdminUserName, cfg.AdminPassword); err != nil {
		log.Fatal("管理员创建失败:", err)
	}

	workers := createTestWorkers()
	tags := createTestTags()
	machines := createTestMachines()
	createTestWorkHours(workers, tags)
	createTestMachineLogs(machines)

	fmt.Println("测试数据生成完成！")
	fmt.Printf("工人: %d 个 (密码: worker123)\n", len(workers))
	fmt.Printf("标签: %d 个, 设备: %d 个\n", len(tags), len(machines))
}

// 创建测试工人
func createTestWorkers() []db.User {
	var count int64
	db.DB.Model(&db.User{}).Where("is_admin = ?", false).Count(&count)
	if count > 0 {
		fmt.Println("工人已存在，跳过创建")
		var workers []db.User
		db.DB.Where("is_admin = ?", false).Find(&workers)
		return workers
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("worker123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	names := []string{"adam", "bartek", "celina", "dorota"}
	workers := make([]db.User, 0, len(names))
	for _, name := range names {
		workers = append(workers, db.User{
			Username: name,
			Password: string(hashed),
			IsActive: true,
		})
	}
	if err := db.DB.Create(&workers).Error; err != nil {
		log.Fatal("创建工人失败:", err)
	}
	return workers
}

// 创建测试标签：一个常驻标签加当月标签
func createTestTags() []db.WorkTag {
	var count int64
	db.DB.Model(&db.WorkTag{}).Count(&count)
	if count > 0 {
		fmt.Println("标签已存在，跳过创建")
		var tags []db.WorkTag
		db.DB.Find(&tags)
		return tags
	}

	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	tags := []db.WorkTag{
		{Name: "Urlop", IsStatic: true},
		{Name: "Malowanie", Month: &month, Year: &year},
		{Name: "Zbrojenie", Month: &month, Year: &year},
		{Name: "Sprzątanie", Month: &month, Year: &year},
	}
	if err := db.DB.Create(&tags).Error; err != nil {
		log.Fatal("创建标签失败:", err)
	}
	return tags
}

// 创建测试设备
func createTestMachines() []db.Machine {
	var count int64
	db.DB.Model(&db.Machine{}).Count(&count)
	if count > 0 {
		fmt.Println("设备已存在，跳过创建")
		var machines []db.Machine
		db.DB.Find(&machines)
		return machines
	}

	machines := []db.Machine{
		{Name: "Koparka"},
		{Name: "Wozidło"},
		{Name: "Agregat"},
	}
	if err := db.DB.Create(&machines).Error; err != nil {
		log.Fatal("创建设备失败:", err)
	}
	return machines
}

// 为每个工人生成本月工作日的工时记录
func createTestWorkHours(workers []db.User, tags []db.WorkTag) {
	var count int64
	db.DB.Model(&db.WorkHour{}).Count(&count)
	if count > 0 {
		fmt.Println("工时记录已存在，跳过创建")
		return
	}

	svc := service.NewTimesheetService(db.DB)
	now := time.Now()

	for i, worker := range workers {
		entries := make(map[int]service.DayEntryInput)
		for day := 1; day <= now.Day(); day++ {
			date := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.Local)
			if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
				continue
			}
			tag := tags[(day+i)%len(tags)]
			entries[day] = service.DayEntryInput{
				StartHour:   fmt.Sprint(6 + i%2),
				StartMinute: "0",
				EndHour:     fmt.Sprint(14 + i%2),
				EndMinute:   "30",
				TagID:       fmt.Sprint(tag.ID),
			}
		}

		// 以管理员身份写入，绕过编辑窗口限制
		owner := worker
		owner.IsAdmin = true
		if problems := svc.SaveMonth(owner, now.Year(), now.Month(), entries); len(problems) > 0 {
			log.Fatal("创建工时记录失败:", problems[0])
		}
	}
}

// 为每个设备生成几天的使用日志
func createTestMachineLogs(machines []db.Machine) {
	var count int64
	db.DB.Model(&db.MachineWorkLog{}).Count(&count)
	if count > 0 {
		fmt.Println("设备日志已存在，跳过创建")
		return
	}

	svc := service.NewMachineService(db.DB)
	now := time.Now()

	for day := 1; day <= now.Day(); day++ {
		date := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.Local)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}

		inputs := make([]service.MachineLogInput, 0, len(machines))
		for i, machine := range machines {
			inputs = append(inputs, service.MachineLogInput{
				MachineID:   machine.ID,
				StartHour:   fmt.Sprint(7 + i),
				StartMinute: "0",
				EndHour:     fmt.Sprint(13 + i),
				EndMinute:   "30",
			})
		}
		if problems := svc.SaveDayLogs(date, inputs); len(problems) > 0 {
			log.Fatal("创建设备日志失败:", problems[0])
		}
	}
}
